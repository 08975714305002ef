package pushgraph

import (
	"time"

	"github.com/hugolhafner/go-pushgraph/errorhandler"
	"github.com/hugolhafner/go-pushgraph/kafka"
	"github.com/hugolhafner/go-pushgraph/logger"
	"github.com/hugolhafner/go-pushgraph/otel"
)

type Config struct {
	Logger    logger.Logger
	Telemetry *otel.Telemetry

	// ErrorHandler decides what happens to a failed tick. Defaults to
	// errorhandler.LogAndFail on Logger.
	ErrorHandler errorhandler.Handler

	// Trail enables trail tracking on every emitted message.
	Trail bool

	// Ticks is the number of ticks Run performs, 0 runs until cancelled.
	Ticks int

	// Interval is the pause between two ticks of Run.
	Interval time.Duration

	// DeadLetter receives ticks the error handler sends to a DLQ.
	DeadLetter kafka.Producer

	// RunID tags every emitted message, a random UUID when empty.
	RunID string
}

type ConfigOption func(*Config)

func WithLogger(logger logger.Logger) ConfigOption {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithTelemetry sets the driver's tracer and meters. The driver records tick
// counts, tick durations and error metrics. Per-node metrics such as
// deliveries need node.WithTelemetry on the nodes themselves.
func WithTelemetry(t *otel.Telemetry) ConfigOption {
	return func(c *Config) {
		c.Telemetry = t
	}
}

func WithErrorHandler(h errorhandler.Handler) ConfigOption {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

func WithTrail(enabled bool) ConfigOption {
	return func(c *Config) {
		c.Trail = enabled
	}
}

func WithTicks(n int) ConfigOption {
	return func(c *Config) {
		c.Ticks = n
	}
}

func WithInterval(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.Interval = d
	}
}

func WithDeadLetter(producer kafka.Producer) ConfigOption {
	return func(c *Config) {
		c.DeadLetter = producer
	}
}

func WithRunID(id string) ConfigOption {
	return func(c *Config) {
		c.RunID = id
	}
}

func defaultConfig() Config {
	return Config{
		Logger:    logger.NewNoopLogger(),
		Telemetry: otel.Noop(),
		Trail:     true,
	}
}
