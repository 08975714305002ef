package node

import (
	"context"

	"github.com/hugolhafner/go-pushgraph/message"
)

type NodeType int

const (
	NodeTypeSource NodeType = iota
	NodeTypeConnector
	NodeTypeSink
)

func (nt NodeType) String() string {
	switch nt {
	case NodeTypeSource:
		return "Source"
	case NodeTypeConnector:
		return "Connector"
	case NodeTypeSink:
		return "Sink"
	default:
		return "Unknown"
	}
}

// Node is anything with a fixed name in the graph.
type Node interface {
	Name() string
	Type() NodeType
}

// Producer can push messages to an ordered list of downstream consumers.
type Producer interface {
	Node
	// Attach appends targets to the downstream list. The list only grows.
	Attach(targets ...Consumer)
	// Targets returns a snapshot of the downstream list in attach order.
	Targets() []Consumer
}

// Consumer can receive a message.
type Consumer interface {
	Node
	Send(ctx context.Context, msg message.Message) error
}

var (
	_ Producer = (*Connector)(nil)
	_ Consumer = (*Connector)(nil)
	_ Producer = (*CounterSource)(nil)
	_ Consumer = (*PrinterSink)(nil)
	_ Consumer = (*PublisherSink)(nil)
	_ Consumer = (*CollectorSink)(nil)
)

type named struct {
	name string
}

func (n named) Name() string {
	return n.name
}

// fanout is the downstream list shared by every producing node.
type fanout struct {
	targets []Consumer
}

func (f *fanout) Attach(targets ...Consumer) {
	f.targets = append(f.targets, targets...)
}

func (f *fanout) Targets() []Consumer {
	out := make([]Consumer, len(f.targets))
	copy(out, f.targets)
	return out
}
