//go:build unit

package node_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hugolhafner/go-pushgraph/node"
	"github.com/stretchr/testify/require"
)

func TestCycleError(t *testing.T) {
	t.Parallel()
	err := &node.CycleError{Path: []string{"Source", "A", "B", "A"}}

	require.Equal(t, "cycle detected: Source -> A -> B -> A", err.Error())
	require.ErrorIs(t, err, node.ErrCycleDetected)
	require.Equal(t, "A", err.Node())
	require.Empty(t, (&node.CycleError{}).Node())

	wrapped := fmt.Errorf("send Source -> A: %w", err)
	ce, ok := node.AsCycleError(wrapped)
	require.True(t, ok)
	require.Same(t, err, ce)
}

func TestRenderError(t *testing.T) {
	t.Parallel()
	cause := errors.New("broken pipe")
	err := node.NewRenderError(cause, "Sink")

	require.Equal(t, "broken pipe", err.Error())
	require.ErrorIs(t, err, cause)

	re, ok := node.AsRenderError(err)
	require.True(t, ok)
	require.Equal(t, "Sink", re.Node)

	_, ok = node.AsProductionError(err)
	require.False(t, ok)
	_, ok = node.AsSerdeError(err)
	require.False(t, ok)
}

func TestProductionError(t *testing.T) {
	t.Parallel()
	cause := fmt.Errorf("produce to counts: %w", errors.New("broker down"))
	err := node.NewProductionError(cause, "Publisher")

	require.Contains(t, err.Error(), "produce to counts")
	require.ErrorIs(t, err, cause)

	pe, ok := node.AsProductionError(err)
	require.True(t, ok)
	require.Equal(t, "Publisher", pe.Node)

	_, ok = node.AsRenderError(err)
	require.False(t, ok)
	_, ok = node.AsCycleError(err)
	require.False(t, ok)
}

func TestSerdeError(t *testing.T) {
	t.Parallel()
	cause := errors.New("invalid utf8")
	err := node.NewSerdeError(cause, "Publisher")

	se, ok := node.AsSerdeError(err)
	require.True(t, ok)
	require.Equal(t, cause, se.Cause)
}

func TestAsHelpers_Nil(t *testing.T) {
	t.Parallel()
	_, ok := node.AsSerdeError(nil)
	require.False(t, ok)

	_, ok = node.AsProductionError(nil)
	require.False(t, ok)

	_, ok = node.AsRenderError(nil)
	require.False(t, ok)

	_, ok = node.AsCycleError(nil)
	require.False(t, ok)
}
