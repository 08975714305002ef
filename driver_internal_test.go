//go:build unit

package pushgraph

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hugolhafner/go-pushgraph/errorhandler"
	"github.com/hugolhafner/go-pushgraph/node"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	cause := errors.New("cause")

	tests := []struct {
		name      string
		err       error
		wantPhase errorhandler.ErrorPhase
		wantNode  string
	}{
		{
			name:      "cycle",
			err:       fmt.Errorf("send S -> A: %w", &node.CycleError{Path: []string{"S", "A", "B", "A"}}),
			wantPhase: errorhandler.PhaseDelivery,
			wantNode:  "A",
		},
		{
			name:      "max depth",
			err:       fmt.Errorf("%w: 4 connector hops at X, limit 3", node.ErrMaxDepthExceeded),
			wantPhase: errorhandler.PhaseDelivery,
		},
		{
			name:      "render",
			err:       fmt.Errorf("forward B -> Sink: %w", node.NewRenderError(cause, "Sink")),
			wantPhase: errorhandler.PhaseRender,
			wantNode:  "Sink",
		},
		{
			name:      "serde",
			err:       node.NewSerdeError(cause, "Out"),
			wantPhase: errorhandler.PhaseSerde,
			wantNode:  "Out",
		},
		{
			name:      "production",
			err:       node.NewProductionError(cause, "Out"),
			wantPhase: errorhandler.PhaseProduction,
			wantNode:  "Out",
		},
		{
			name:      "unknown",
			err:       cause,
			wantPhase: errorhandler.PhaseUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				t.Parallel()
				phase, nodeName := classify(tt.err)
				require.Equal(t, tt.wantPhase, phase)
				require.Equal(t, tt.wantNode, nodeName)
			},
		)
	}
}
