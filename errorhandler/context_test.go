//go:build unit

package errorhandler_test

import (
	"errors"
	"testing"

	"github.com/hugolhafner/go-pushgraph/errorhandler"
	"github.com/hugolhafner/go-pushgraph/message"
	"github.com/stretchr/testify/require"
)

func TestNewErrorContext(t *testing.T) {
	t.Parallel()
	msg := message.New(4, message.NewTrail("Source", "A"))
	ec := errorhandler.NewErrorContext(msg, nil)

	require.Equal(t, msg, ec.Message)
	require.Nil(t, ec.Error)
	require.Equal(t, 1, ec.Attempt)
	require.Empty(t, ec.NodeName)
	require.Equal(t, errorhandler.PhaseUnknown, ec.Phase)
}

func TestErrorContext_Builders(t *testing.T) {
	t.Parallel()
	sampleErr := errors.New("sample error")
	base := errorhandler.NewErrorContext(message.New(0, message.NoTrail()), nil)

	ec := base.
		WithError(sampleErr).
		WithSource("Source").
		WithNodeName("Sink").
		WithPhase(errorhandler.PhaseRender).
		WithAttempt(5)

	require.Equal(t, sampleErr, ec.Error)
	require.Equal(t, "Source", ec.Source)
	require.Equal(t, "Sink", ec.NodeName)
	require.Equal(t, errorhandler.PhaseRender, ec.Phase)
	require.Equal(t, 5, ec.Attempt)

	// value receivers leave the original untouched
	require.Nil(t, base.Error)
	require.Equal(t, 1, base.Attempt)
}

func TestErrorContext_IncrementAttempt(t *testing.T) {
	t.Parallel()
	ec := errorhandler.NewErrorContext(message.Message{}, nil)
	ec = ec.IncrementAttempt()
	require.Equal(t, 2, ec.Attempt)

	ec = ec.IncrementAttempt()
	require.Equal(t, 3, ec.Attempt)
}
