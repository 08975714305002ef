package pushgraph

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hugolhafner/go-pushgraph/errorhandler"
	"github.com/hugolhafner/go-pushgraph/logger"
	"github.com/hugolhafner/go-pushgraph/message"
	"github.com/hugolhafner/go-pushgraph/node"
	"github.com/hugolhafner/go-pushgraph/otel"
	"github.com/hugolhafner/go-pushgraph/topology"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Driver triggers one source of a topology, either one tick at a time or in a
// loop. Ticks are serialised: a Tick returns only after every sink reachable
// from the source has handled the message.
type Driver struct {
	topology *topology.Topology
	source   *node.CounterSource
	config   Config
	logger   logger.Logger
	handler  errorhandler.Handler
	runID    string

	tickMu sync.Mutex

	mu        sync.Mutex
	running   bool
	closeOnce sync.Once
	closedCh  chan struct{}
}

func NewDriver(topo *topology.Topology, source string, opts ...ConfigOption) (*Driver, error) {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return NewDriverWithConfig(topo, source, config)
}

func NewDriverWithConfig(topo *topology.Topology, source string, config Config) (*Driver, error) {
	src, ok := topo.Source(source)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, source)
	}

	if config.Logger == nil {
		config.Logger = logger.NewNoopLogger()
	}
	if config.Telemetry == nil {
		config.Telemetry = otel.Noop()
	}
	if config.ErrorHandler == nil {
		config.ErrorHandler = errorhandler.LogAndFail(config.Logger)
	}

	runID := config.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	return &Driver{
		topology: topo,
		source:   src,
		config:   config,
		logger:   config.Logger.With("source", source, "run_id", runID),
		handler:  config.ErrorHandler,
		runID:    runID,
		closedCh: make(chan struct{}),
	}, nil
}

func (d *Driver) RunID() string {
	return d.runID
}

// Count returns how many ticks the source has performed.
func (d *Driver) Count() int64 {
	d.tickMu.Lock()
	defer d.tickMu.Unlock()
	return d.source.Count()
}

// Tick performs one trigger of the source. A failure goes through the error
// handler; the returned error is non-nil only when the handler fails the tick.
func (d *Driver) Tick(ctx context.Context) error {
	select {
	case <-d.closedCh:
		return ErrClosed
	default:
	}

	return d.tick(ctx)
}

// Run performs the configured number of ticks, or ticks until ctx is
// cancelled when Ticks is zero. It stops at the first tick the error handler
// fails and closes the driver on return.
func (d *Driver) Run(ctx context.Context) error {
	if err := d.startRunning(); err != nil {
		return err
	}
	defer d.Close()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-d.closedCh:
			cancel()
		case <-runCtx.Done():
		}
	}()

	d.logger.Info("Driver started", "ticks", d.config.Ticks, "interval", d.config.Interval, "trail", d.config.Trail)

	for i := 0; d.config.Ticks == 0 || i < d.config.Ticks; i++ {
		if i > 0 && d.config.Interval > 0 {
			timer := time.NewTimer(d.config.Interval)
			select {
			case <-runCtx.Done():
				timer.Stop()
				d.logger.Info("Driver stopped", "ticks", i)
				return nil
			case <-timer.C:
			}
		}

		select {
		case <-runCtx.Done():
			d.logger.Info("Driver stopped", "ticks", i)
			return nil
		default:
		}

		if err := d.tick(runCtx); err != nil {
			if runCtx.Err() != nil && errors.Is(err, runCtx.Err()) {
				return nil
			}
			return fmt.Errorf("tick %d: %w", i, err)
		}
	}

	d.logger.Info("Driver finished", "ticks", d.config.Ticks)
	return nil
}

func (d *Driver) Close() {
	d.closeOnce.Do(
		func() {
			d.mu.Lock()
			defer d.mu.Unlock()

			d.running = false
			close(d.closedCh)
		},
	)
}

func (d *Driver) startRunning() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return ErrAlreadyRunning
	}

	select {
	case <-d.closedCh:
		return ErrClosed
	default:
	}

	d.running = true
	return nil
}

func (d *Driver) tick(ctx context.Context) error {
	d.tickMu.Lock()
	defer d.tickMu.Unlock()

	tel := d.config.Telemetry
	name := d.source.Name()
	value := d.source.Count()

	ctx = node.ContextWithRunID(ctx, d.runID)

	start := time.Now()
	ctx, span := tel.Tracer.Start(
		ctx, name+" tick",
		trace.WithAttributes(
			otel.AttrSourceName.String(name),
			otel.AttrMessageValue.Int64(value),
			otel.AttrTrailEnabled.Bool(d.config.Trail),
		),
	)
	defer span.End()

	tel.Ticks.Add(ctx, 1, metric.WithAttributes(otel.AttrSourceName.String(name)))

	trail := message.NoTrail()
	if d.config.Trail {
		trail = message.NewTrail(name)
	}
	msg := message.New(value, trail).WithMetadata(message.Metadata{Timestamp: start, RunID: d.runID})

	ec := errorhandler.NewErrorContext(msg, nil).WithSource(name)
	recordStatus := func(status string) {
		span.SetAttributes(attribute.Int("pushgraph.tick.attempts", ec.Attempt))
		tel.TickDuration.Record(
			ctx, time.Since(start).Seconds(), metric.WithAttributes(
				otel.AttrSourceName.String(name),
				otel.AttrTickStatus.String(status),
			),
		)
	}

	err := d.triggerSafe(ctx)
	for {
		if err == nil {
			d.logger.Debug("Tick delivered", "value", value, "attempt", ec.Attempt)
			if ec.Attempt > 1 {
				recordStatus(otel.StatusRetried)
			} else {
				recordStatus(otel.StatusSuccess)
			}
			return nil
		}

		if ctx.Err() != nil {
			d.logger.Warn("Context cancelled during tick", "value", value, "error", ctx.Err())
			span.SetStatus(codes.Error, ctx.Err().Error())
			recordStatus(otel.StatusFailed)
			return ctx.Err()
		}

		phase, nodeName := classify(err)
		ec = ec.WithError(err).WithNodeName(nodeName).WithPhase(phase)

		span.RecordError(err)
		tel.Errors.Add(
			ctx, 1, metric.WithAttributes(
				otel.AttrSourceName.String(name),
				otel.AttrErrorNode.String(ec.NodeName),
				otel.AttrErrorPhase.String(ec.Phase.String()),
			),
		)

		action := d.handler.Handle(ctx, ec)

		tel.ErrorHandlerActions.Add(
			ctx, 1, metric.WithAttributes(
				otel.AttrErrorAction.String(action.Type().String()),
				otel.AttrSourceName.String(name),
				otel.AttrErrorPhase.String(ec.Phase.String()),
			),
		)

		switch action.Type() {
		case errorhandler.ActionTypeFail:
			recordStatus(otel.StatusFailed)
			span.SetStatus(codes.Error, err.Error())
			return err

		case errorhandler.ActionTypeRetry:
			d.logger.Debug("Retrying tick", "attempt", ec.Attempt, "value", value)
			ec = ec.IncrementAttempt()

			if ec.Attempt%10 == 0 {
				d.logger.Warn(
					"Tick seen high number of retry attempts, "+
						"consider sending to DLQ or allowing error handler to skip.",
					"attempt", ec.Attempt, "value", value,
				)
			}

			err = d.redeliverSafe(ctx)

		case errorhandler.ActionTypeSendToDLQ:
			a, ok := action.(errorhandler.ActionSendToDLQ)
			if !ok {
				d.logger.Error("Invalid action type, expected ActionSendToDLQ", "action", action.Type().String())
				recordStatus(otel.StatusFailed)
				span.SetStatus(codes.Error, "invalid action type")
				return errors.New("invalid action type, expected ActionSendToDLQ")
			}

			if dlqErr := sendToDLQ(ctx, d.config.DeadLetter, ec, a.Topic()); dlqErr != nil {
				d.logger.Error(
					"Failed to send tick to DLQ.",
					"error", dlqErr,
					"topic", a.Topic(),
					"value", value,
				)
				recordStatus(otel.StatusFailed)
				span.SetStatus(codes.Error, dlqErr.Error())
				return errors.Join(err, dlqErr)
			}

			recordStatus(otel.StatusSkipped)
			return nil

		case errorhandler.ActionTypeContinue:
			d.logger.Debug("Skipping failed tick", "value", value)
			recordStatus(otel.StatusSkipped)
			return nil

		default:
			d.logger.Error(
				"Unknown error handler action, failing tick",
				"error", err,
				"value", value,
				"attempt", ec.Attempt,
				"node", ec.NodeName,
			)
			recordStatus(otel.StatusFailed)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
}

func (d *Driver) triggerSafe(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic recovered: %v", r)
		}
	}()

	return d.source.Trigger(ctx, d.config.Trail)
}

func (d *Driver) redeliverSafe(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic recovered: %v", r)
		}
	}()

	return d.source.Redeliver(ctx, d.config.Trail)
}

// classify maps a delivery error to the phase and node it came from.
func classify(err error) (errorhandler.ErrorPhase, string) {
	if cErr, ok := node.AsCycleError(err); ok {
		return errorhandler.PhaseDelivery, cErr.Node()
	}
	if errors.Is(err, node.ErrMaxDepthExceeded) {
		return errorhandler.PhaseDelivery, ""
	}
	if rErr, ok := node.AsRenderError(err); ok {
		return errorhandler.PhaseRender, rErr.Node
	}
	if sErr, ok := node.AsSerdeError(err); ok {
		return errorhandler.PhaseSerde, sErr.Node
	}
	if pErr, ok := node.AsProductionError(err); ok {
		return errorhandler.PhaseProduction, pErr.Node
	}
	return errorhandler.PhaseUnknown, ""
}
