package node

import (
	"context"
	"fmt"
)

type pathKey struct{}

type runIDKey struct{}

// hop is one producing node on the current send. Nodes are compared by
// identity, so separate nodes sharing a name are not mistaken for a cycle.
type hop struct {
	node Node
	name string
}

// hopPath is the chain of producing nodes the current send went through.
// It is tracked independently of the message trail so the guard works even
// when trail tracking is disabled.
type hopPath []hop

func pathFromContext(ctx context.Context) hopPath {
	p, _ := ctx.Value(pathKey{}).(hopPath)
	return p
}

func (p hopPath) names() []string {
	names := make([]string, len(p))
	for i, h := range p {
		names[i] = h.name
	}
	return names
}

// connectors counts the connector hops on the path.
func (p hopPath) connectors() int {
	n := 0
	for _, h := range p {
		if h.node.Type() == NodeTypeConnector {
			n++
		}
	}
	return n
}

// Path returns the names of the producing nodes the current send passed
// through, oldest first.
func Path(ctx context.Context) []string {
	return pathFromContext(ctx).names()
}

// enter records n on the hop path carried by ctx. It fails when n itself is
// already on the path, or when n is a connector and entering it would take
// the message through more than maxDepth connectors.
func enter(ctx context.Context, n Node, maxDepth int) (context.Context, error) {
	p := pathFromContext(ctx)

	for _, seen := range p {
		if seen.node == n {
			cycle := append(p.names(), n.Name())
			return ctx, &CycleError{Path: cycle}
		}
	}

	if n.Type() == NodeTypeConnector {
		if hops := p.connectors() + 1; hops > maxDepth {
			return ctx, fmt.Errorf("%w: %d connector hops at %s, limit %d", ErrMaxDepthExceeded, hops, n.Name(), maxDepth)
		}
	}

	next := make(hopPath, len(p)+1)
	copy(next, p)
	next[len(p)] = hop{node: n, name: n.Name()}

	return context.WithValue(ctx, pathKey{}, next), nil
}

// ContextWithRunID tags every message emitted under ctx with id.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
