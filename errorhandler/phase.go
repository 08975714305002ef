package errorhandler

import (
	"context"
)

// ErrorPhase indicates where in the graph an error occurred
type ErrorPhase int

const (
	PhaseUnknown    ErrorPhase = iota // zero value - unclassified error
	PhaseDelivery                     // error while forwarding between nodes (cycles, depth)
	PhaseRender                       // error while a printer sink wrote its output
	PhaseSerde                        // error while encoding a message for publishing
	PhaseProduction                   // error during sink production
)

func (p ErrorPhase) String() string {
	switch p {
	case PhaseDelivery:
		return "delivery"
	case PhaseRender:
		return "render"
	case PhaseSerde:
		return "serde"
	case PhaseProduction:
		return "production"
	default:
		return "unknown"
	}
}

var _ Handler = (*PhaseRouter)(nil)

// PhaseRouter dispatches to a per-phase handler, falling back to a default.
type PhaseRouter struct {
	handler Handler
	phases  map[ErrorPhase]Handler
}

type PhaseRouterOption func(*PhaseRouter)

// OnPhase routes errors of phase to h. A nil h leaves the phase on the default.
func OnPhase(phase ErrorPhase, h Handler) PhaseRouterOption {
	return func(r *PhaseRouter) {
		if h != nil {
			r.phases[phase] = h
		}
	}
}

// NewPhaseRouter creates a PhaseRouter with handler as the default.
// If the default handler is unset, defaults to SilentFail, which fails without logging at the error handler level.
func NewPhaseRouter(handler Handler, opts ...PhaseRouterOption) *PhaseRouter {
	if handler == nil {
		handler = SilentFail()
	}

	r := &PhaseRouter{
		handler: handler,
		phases:  make(map[ErrorPhase]Handler),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *PhaseRouter) Handle(ctx context.Context, ec ErrorContext) Action {
	if h, ok := r.phases[ec.Phase]; ok {
		return h.Handle(ctx, ec)
	}

	return r.handler.Handle(ctx, ec)
}
