package node

import (
	"context"
	"fmt"

	"github.com/hugolhafner/go-pushgraph/logger"
	"github.com/hugolhafner/go-pushgraph/message"
	"github.com/hugolhafner/go-pushgraph/otel"
	"go.opentelemetry.io/otel/metric"
)

// Connector both consumes and produces: every message it receives is passed
// on, with its own name added to the trail, to all of its targets.
type Connector struct {
	named
	fanout

	cfg    config
	logger logger.Logger
}

func NewConnector(name string, opts ...Option) *Connector {
	cfg := newConfig(opts)
	return &Connector{
		named:  named{name: name},
		cfg:    cfg,
		logger: cfg.logger.With("node", name),
	}
}

func (c *Connector) Type() NodeType {
	return NodeTypeConnector
}

// Send forwards msg to each target in attach order. Each target's whole
// subtree is processed before the next target is visited. The first failing
// target stops the fan-out.
func (c *Connector) Send(ctx context.Context, msg message.Message) error {
	ctx, err := enter(ctx, c, c.cfg.maxDepth)
	if err != nil {
		return err
	}

	c.cfg.telemetry.Deliveries.Add(
		ctx, 1, metric.WithAttributes(
			otel.AttrNodeName.String(c.name),
			otel.AttrNodeType.String(c.Type().String()),
		),
	)

	out := msg.WithTrail(msg.Trail.Append(c.name))

	for _, target := range c.Targets() {
		c.logger.Debug("Forwarding message", "target", target.Name(), "value", out.Value)
		if err := target.Send(ctx, out); err != nil {
			return fmt.Errorf("forward %s -> %s: %w", c.name, target.Name(), err)
		}
	}

	return nil
}
