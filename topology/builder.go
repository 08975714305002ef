package topology

import (
	"errors"
	"fmt"

	"github.com/hugolhafner/go-pushgraph/node"
)

var (
	ErrDuplicateNode = errors.New("duplicate node name")
	ErrNodeNotFound  = errors.New("node not found")
	ErrInvalidEdge   = errors.New("invalid edge")
	ErrCycleDetected = errors.New("topology contains a cycle")
	ErrNoSource      = errors.New("topology has no source")
)

type edge struct {
	parent string
	child  string
}

// Builder declares nodes and edges. Edges are attached in declaration order,
// which fixes the fan-out order of every producing node.
type Builder struct {
	defs  map[string]*nodeDef
	order []string
	edges []edge
	opts  []node.Option
	errs  []error
}

// NewBuilder returns a Builder; opts are applied to every node it creates.
func NewBuilder(opts ...node.Option) *Builder {
	return &Builder{
		defs: make(map[string]*nodeDef),
		opts: opts,
	}
}

func (b *Builder) add(def *nodeDef) bool {
	if _, exists := b.defs[def.name]; exists {
		b.errs = append(b.errs, fmt.Errorf("%w: %s", ErrDuplicateNode, def.name))
		return false
	}
	b.defs[def.name] = def
	b.order = append(b.order, def.name)
	return true
}

func (b *Builder) connect(child string, parents []string) {
	for _, parent := range parents {
		b.edges = append(b.edges, edge{parent: parent, child: child})
	}
}

func (b *Builder) AddSource(name string) *Builder {
	b.add(&nodeDef{name: name, nodeType: node.NodeTypeSource})
	return b
}

func (b *Builder) AddConnector(name string, parents ...string) *Builder {
	if b.add(&nodeDef{name: name, nodeType: node.NodeTypeConnector}) {
		b.connect(name, parents)
	}
	return b
}

func (b *Builder) AddSink(name string, factory SinkFactory, parents ...string) *Builder {
	if factory == nil {
		factory = Printer(nil)
	}
	if b.add(&nodeDef{name: name, nodeType: node.NodeTypeSink, sink: factory}) {
		b.connect(name, parents)
	}
	return b
}

// Connect adds an edge between two nodes that may be declared later.
func (b *Builder) Connect(parent, child string) *Builder {
	b.edges = append(b.edges, edge{parent: parent, child: child})
	return b
}

// Build validates the declared graph and wires the nodes. It rejects
// duplicate names, dangling edges, edges into a source or out of a sink, and
// cycles.
func (b *Builder) Build() (*Topology, error) {
	errs := append([]error(nil), b.errs...)

	children := make(map[string][]string)
	for _, e := range b.edges {
		p, ok := b.defs[e.parent]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: parent %s of %s", ErrNodeNotFound, e.parent, e.child))
			continue
		}
		c, ok := b.defs[e.child]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: child %s of %s", ErrNodeNotFound, e.child, e.parent))
			continue
		}
		if p.nodeType == node.NodeTypeSink {
			errs = append(errs, fmt.Errorf("%w: sink %s cannot have children", ErrInvalidEdge, p.name))
			continue
		}
		if c.nodeType == node.NodeTypeSource {
			errs = append(errs, fmt.Errorf("%w: source %s cannot have parents", ErrInvalidEdge, c.name))
			continue
		}
		children[e.parent] = append(children[e.parent], e.child)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if cycle := findCycle(b.order, children); cycle != nil {
		return nil, fmt.Errorf("%w: %v", ErrCycleDetected, cycle)
	}

	t := newTopology()
	for _, name := range b.order {
		def := b.defs[name]
		var n node.Node
		switch def.nodeType {
		case node.NodeTypeSource:
			n = node.NewCounterSource(name, b.opts...)
			t.sources = append(t.sources, name)
		case node.NodeTypeConnector:
			n = node.NewConnector(name, b.opts...)
		case node.NodeTypeSink:
			n = def.sink(name, b.opts...)
			t.sinks = append(t.sinks, name)
		}
		t.nodes[name] = n
		t.order = append(t.order, name)
	}

	if len(t.sources) == 0 {
		return nil, ErrNoSource
	}

	for _, name := range b.order {
		kids := children[name]
		if len(kids) == 0 {
			continue
		}
		producer := t.nodes[name].(node.Producer)
		for _, child := range kids {
			producer.Attach(t.nodes[child].(node.Consumer))
		}
		t.edges[name] = kids
	}

	return t, nil
}

// findCycle returns the first cycle found by a depth first walk, as a path
// whose first and last element are the same node, or nil.
func findCycle(order []string, children map[string][]string) []string {
	const (
		white = iota
		grey
		black
	)

	color := make(map[string]int, len(order))
	var stack []string
	var found []string

	var visit func(string) bool
	visit = func(name string) bool {
		color[name] = grey
		stack = append(stack, name)

		for _, child := range children[name] {
			switch color[child] {
			case grey:
				for i, s := range stack {
					if s == child {
						found = append(append([]string(nil), stack[i:]...), child)
						break
					}
				}
				return true
			case white:
				if visit(child) {
					return true
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[name] = black
		return false
	}

	for _, name := range order {
		if color[name] == white && visit(name) {
			return found
		}
	}
	return nil
}
