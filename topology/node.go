package topology

import (
	"io"

	"github.com/hugolhafner/go-pushgraph/kafka"
	"github.com/hugolhafner/go-pushgraph/message"
	"github.com/hugolhafner/go-pushgraph/node"
	"github.com/hugolhafner/go-pushgraph/serde"
)

// SinkFactory builds a terminal node once the topology is built.
type SinkFactory func(name string, opts ...node.Option) node.Consumer

// Printer renders to w (stdout when nil).
func Printer(w io.Writer) SinkFactory {
	return func(name string, opts ...node.Option) node.Consumer {
		return node.NewPrinterSink(name, w, opts...)
	}
}

// Publisher exports to topic through producer.
func Publisher(topic string, producer kafka.Producer, s serde.Serialiser[message.Message]) SinkFactory {
	return func(name string, opts ...node.Option) node.Consumer {
		return node.NewPublisherSink(name, topic, producer, s, opts...)
	}
}

// Collector keeps deliveries in memory; fetch it back with Topology.Collector.
func Collector() SinkFactory {
	return func(name string, _ ...node.Option) node.Consumer {
		return node.NewCollectorSink(name)
	}
}

// nodeDef is a declared but not yet instantiated node.
type nodeDef struct {
	name     string
	nodeType node.NodeType
	sink     SinkFactory
}
