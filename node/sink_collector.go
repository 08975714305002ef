package node

import (
	"context"
	"sync"

	"github.com/hugolhafner/go-pushgraph/message"
)

// Delivery is one message as seen by a CollectorSink.
type Delivery struct {
	Sink  string
	Value int64
	Trail []string
	// Traced is false when the message arrived without trail tracking.
	Traced bool
}

// CollectorSink keeps every received message in memory.
type CollectorSink struct {
	named

	mu         sync.Mutex
	deliveries []Delivery
}

func NewCollectorSink(name string) *CollectorSink {
	return &CollectorSink{named: named{name: name}}
}

func (c *CollectorSink) Type() NodeType {
	return NodeTypeSink
}

func (c *CollectorSink) Send(_ context.Context, msg message.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.deliveries = append(
		c.deliveries, Delivery{
			Sink:   c.name,
			Value:  msg.Value,
			Trail:  msg.Trail.Names(),
			Traced: msg.Trail.Enabled(),
		},
	)
	return nil
}

// Deliveries returns a copy of everything received, in arrival order.
func (c *CollectorSink) Deliveries() []Delivery {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Delivery, len(c.deliveries))
	copy(out, c.deliveries)
	return out
}

func (c *CollectorSink) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deliveries = nil
}
