package errorhandler

import (
	"context"
	"time"

	"github.com/hugolhafner/dskit/backoff"
	"github.com/hugolhafner/go-pushgraph/logger"
)

func logFields(ec ErrorContext) []any {
	return []any{
		"error", ec.Error,
		"source", ec.Source,
		"value", ec.Message.Value,
		"trail", ec.Message.Trail.String(),
		"attempt", ec.Attempt,
		"node", ec.NodeName,
		"phase", ec.Phase.String(),
	}
}

// LogAndContinue logs error and continues with the next tick
func LogAndContinue(logger logger.Logger) Handler {
	return HandlerFunc(
		func(ctx context.Context, ec ErrorContext) Action {
			logger.Error("error delivering message, skipping", logFields(ec)...)
			return ActionContinue{}
		},
	)
}

// LogAndFail logs error and stops the driver
func LogAndFail(logger logger.Logger) Handler {
	return HandlerFunc(
		func(ctx context.Context, ec ErrorContext) Action {
			logger.Error("error delivering message, failing", logFields(ec)...)
			return ActionFail{}
		},
	)
}

// SilentFail stops the driver without logging.
func SilentFail() Handler {
	return HandlerFunc(
		func(context.Context, ErrorContext) Action {
			return ActionFail{}
		},
	)
}

// WithMaxAttempts wraps a handler with retry logic
// When the max attempts is reached, the fallback handler is called
func WithMaxAttempts(maxAttempts int, b backoff.Backoff, fallback Handler) Handler {
	return HandlerFunc(
		func(ctx context.Context, ec ErrorContext) Action {
			select {
			case <-ctx.Done():
				return ActionFail{}
			case <-time.After(b.Next(uint(ec.Attempt))):
			}

			if ec.Attempt < maxAttempts {
				return ActionRetry{}
			}

			return fallback.Handle(ctx, ec)
		},
	)
}

// WithDLQ returns SendToDLQ action when inner would Continue
// Useful for: WithMaxAttempts(3, backoff, WithDLQ(topic, inner))
func WithDLQ(topic string, inner Handler) Handler {
	return HandlerFunc(
		func(ctx context.Context, ec ErrorContext) Action {
			var action Action = ActionContinue{}
			if inner != nil {
				action = inner.Handle(ctx, ec)
			}

			if action.Type() == ActionTypeContinue {
				return ActionSendToDLQ{topic: topic}
			}

			return action
		},
	)
}

// ActionLogger logs the action decided by the next handler
func ActionLogger(l logger.Logger, level logger.LogLevel, next Handler) Handler {
	return HandlerFunc(
		func(ctx context.Context, ec ErrorContext) Action {
			action := next.Handle(ctx, ec)

			l.Log(level, "Error handler decision", append([]any{"action", action.Type().String()}, logFields(ec)...)...)
			return action
		},
	)
}
