package topology

import (
	"fmt"
	"io"

	"github.com/hugolhafner/go-pushgraph/node"
)

// Topology is a built, wired graph.
type Topology struct {
	nodes   map[string]node.Node
	order   []string
	edges   map[string][]string
	sources []string
	sinks   []string
}

func newTopology() *Topology {
	return &Topology{
		nodes:   make(map[string]node.Node),
		edges:   make(map[string][]string),
		sources: []string{},
		sinks:   []string{},
	}
}

func (t *Topology) Node(name string) (node.Node, bool) {
	n, ok := t.nodes[name]
	return n, ok
}

// Nodes returns node names in declaration order.
func (t *Topology) Nodes() []string {
	return append([]string(nil), t.order...)
}

func (t *Topology) Source(name string) (*node.CounterSource, bool) {
	s, ok := t.nodes[name].(*node.CounterSource)
	return s, ok
}

func (t *Topology) Collector(name string) (*node.CollectorSink, bool) {
	c, ok := t.nodes[name].(*node.CollectorSink)
	return c, ok
}

func (t *Topology) Children(parent string) []string {
	return append([]string(nil), t.edges[parent]...)
}

func (t *Topology) Sources() []string {
	return append([]string(nil), t.sources...)
}

func (t *Topology) Sinks() []string {
	return append([]string(nil), t.sinks...)
}

// PrintTree writes an indented view of the graph reachable from each source.
// Nodes reached more than once are printed at their first position only.
func (t *Topology) PrintTree(w io.Writer) error {
	visited := make(map[string]bool)
	for _, source := range t.sources {
		if err := t.printNode(w, source, "", visited); err != nil {
			return err
		}
	}
	return nil
}

func (t *Topology) printNode(w io.Writer, name, prefix string, visited map[string]bool) error {
	if visited[name] {
		return nil
	}
	visited[name] = true

	n, exists := t.nodes[name]
	if !exists {
		return nil
	}

	if _, err := fmt.Fprintf(w, "%s- %s (%s)\n", prefix, name, n.Type().String()); err != nil {
		return err
	}

	for _, child := range t.edges[name] {
		if err := t.printNode(w, child, prefix+"  ", visited); err != nil {
			return err
		}
	}
	return nil
}

// Diamond builds the demo graph:
//
//	              /--> B \
//	Source --> A <        >--> Sink
//	              \--> C /
func Diamond(sink SinkFactory, opts ...node.Option) (*Topology, error) {
	return NewBuilder(opts...).
		AddSource("Source").
		AddConnector("A", "Source").
		AddConnector("B", "A").
		AddConnector("C", "A").
		AddSink("Sink", sink, "B", "C").
		Build()
}
