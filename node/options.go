package node

import (
	"github.com/hugolhafner/go-pushgraph/logger"
	"github.com/hugolhafner/go-pushgraph/otel"
)

// DefaultMaxDepth bounds the number of connectors a single message may pass
// through. The source and the sinks do not count.
const DefaultMaxDepth = 1024

type config struct {
	logger    logger.Logger
	telemetry *otel.Telemetry
	maxDepth  int
}

func defaultConfig() config {
	return config{
		logger:    logger.NewNoopLogger(),
		telemetry: otel.Noop(),
		maxDepth:  DefaultMaxDepth,
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

type Option func(*config)

func WithLogger(l logger.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithTelemetry(t *otel.Telemetry) Option {
	return func(c *config) {
		if t != nil {
			c.telemetry = t
		}
	}
}

// WithMaxDepth sets the connector hop limit enforced by the traversal guard.
// Values below 1 keep the default.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}
