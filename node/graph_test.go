//go:build unit

package node_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hugolhafner/go-pushgraph/message"
	"github.com/hugolhafner/go-pushgraph/node"
	mocknode "github.com/hugolhafner/go-pushgraph/node/mock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// funcConsumer runs fn on every Send.
type funcConsumer struct {
	name string
	fn   func(ctx context.Context, msg message.Message) error
}

func (f *funcConsumer) Name() string        { return f.name }
func (f *funcConsumer) Type() node.NodeType { return node.NodeTypeSink }
func (f *funcConsumer) Send(ctx context.Context, msg message.Message) error {
	return f.fn(ctx, msg)
}

func diamond(out *bytes.Buffer) *node.CounterSource {
	source := node.NewCounterSource("Source")
	a := node.NewConnector("A")
	b := node.NewConnector("B")
	c := node.NewConnector("C")
	sink := node.NewPrinterSink("Sink", out)

	source.Attach(a)
	a.Attach(b, c)
	b.Attach(sink)
	c.Attach(sink)
	return source
}

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

func TestCounterSource_CountEqualsTriggers(t *testing.T) {
	t.Parallel()
	for _, n := range []int{0, 1, 5, 32} {
		t.Run(
			fmt.Sprintf("%d triggers", n), func(t *testing.T) {
				t.Parallel()
				source := node.NewCounterSource("Source")
				source.Attach(node.NewCollectorSink("Sink"))

				for i := 0; i < n; i++ {
					require.NoError(t, source.Trigger(context.Background(), false))
				}
				require.Equal(t, int64(n), source.Count())
			},
		)
	}
}

func TestCounterSource_IncrementsOncePerTriggerRegardlessOfFanOut(t *testing.T) {
	t.Parallel()
	source := node.NewCounterSource("Source")
	sinks := []*node.CollectorSink{
		node.NewCollectorSink("S1"), node.NewCollectorSink("S2"), node.NewCollectorSink("S3"),
	}
	for _, s := range sinks {
		source.Attach(s)
	}

	require.NoError(t, source.Trigger(context.Background(), false))
	require.NoError(t, source.Trigger(context.Background(), false))

	require.Equal(t, int64(2), source.Count())
	for _, s := range sinks {
		got := s.Deliveries()
		require.Len(t, got, 2)
		require.Equal(t, int64(0), got[0].Value)
		require.Equal(t, int64(1), got[1].Value)
	}
}

func TestDiamond_RenderedOutput(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	source := diamond(&out)

	for i := 0; i < 3; i++ {
		require.NoError(t, source.Trigger(context.Background(), true))
	}

	require.Equal(
		t, []string{
			`PrinterSink "Sink": msg=0 trail=(Source, A, B)`,
			`PrinterSink "Sink": msg=0 trail=(Source, A, C)`,
			`PrinterSink "Sink": msg=1 trail=(Source, A, B)`,
			`PrinterSink "Sink": msg=1 trail=(Source, A, C)`,
			`PrinterSink "Sink": msg=2 trail=(Source, A, B)`,
			`PrinterSink "Sink": msg=2 trail=(Source, A, C)`,
		}, lines(&out),
	)
}

func TestDiamond_TrailDisabled(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	source := diamond(&out)

	require.NoError(t, source.Trigger(context.Background(), false))

	require.Equal(
		t, []string{
			`PrinterSink "Sink": msg=0`,
			`PrinterSink "Sink": msg=0`,
		}, lines(&out),
	)
}

func TestDiamond_Deterministic(t *testing.T) {
	t.Parallel()
	run := func() string {
		var out bytes.Buffer
		source := diamond(&out)
		for i := 0; i < 4; i++ {
			require.NoError(t, source.Trigger(context.Background(), true))
		}
		return out.String()
	}

	require.Equal(t, run(), run())
}

func TestChain_TrailHasOneEntryPerHop(t *testing.T) {
	t.Parallel()
	for k := 0; k <= 4; k++ {
		t.Run(
			fmt.Sprintf("%d connectors", k), func(t *testing.T) {
				t.Parallel()
				source := node.NewCounterSource("Source")
				sink := node.NewCollectorSink("Sink")

				var prev node.Producer = source
				want := []string{"Source"}
				for i := 0; i < k; i++ {
					name := fmt.Sprintf("C%d", i)
					c := node.NewConnector(name)
					prev.Attach(c)
					prev = c
					want = append(want, name)
				}
				prev.Attach(sink)

				require.NoError(t, source.Trigger(context.Background(), true))
				require.NoError(t, source.Trigger(context.Background(), false))

				got := sink.Deliveries()
				require.Len(t, got, 2)
				require.True(t, got[0].Traced)
				require.Len(t, got[0].Trail, k+1)
				require.Equal(t, want, got[0].Trail)

				require.False(t, got[1].Traced)
				require.Empty(t, got[1].Trail)
			},
		)
	}
}

func TestFanOut_FollowsAttachOrderDepthFirst(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	source := node.NewCounterSource("Source")
	a := node.NewConnector("A")
	b := node.NewConnector("B")
	c := node.NewConnector("C")
	d := node.NewConnector("D")

	source.Attach(a)
	a.Attach(b, c)
	b.Attach(d)
	d.Attach(node.NewPrinterSink("SinkD", &out))
	c.Attach(node.NewPrinterSink("SinkC", &out))
	b.Attach(node.NewPrinterSink("SinkB", &out))

	require.NoError(t, source.Trigger(context.Background(), true))

	require.Equal(
		t, []string{
			`PrinterSink "SinkD": msg=0 trail=(Source, A, B, D)`,
			`PrinterSink "SinkB": msg=0 trail=(Source, A, B)`,
			`PrinterSink "SinkC": msg=0 trail=(Source, A, C)`,
		}, lines(&out),
	)
}

func TestConnector_StopsFanOutOnFirstError(t *testing.T) {
	t.Parallel()
	boom := errors.New("sink unavailable")

	first := mocknode.NewMockConsumer("first")
	first.On("Send", mock.Anything, mock.Anything).Return(boom)
	second := mocknode.NewMockConsumer("second")

	a := node.NewConnector("A")
	a.Attach(first, second)
	source := node.NewCounterSource("Source")
	source.Attach(a)

	err := source.Trigger(context.Background(), true)
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "forward A -> first")
	require.Equal(t, int64(1), source.Count(), "counter advances even on failure")

	first.AssertNumberOfCalls(t, "Send", 1)
	second.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestCycle_Detected(t *testing.T) {
	t.Parallel()
	source := node.NewCounterSource("Source")
	a := node.NewConnector("A")
	b := node.NewConnector("B")
	source.Attach(a)
	a.Attach(b)
	b.Attach(a)

	err := source.Trigger(context.Background(), false)
	require.ErrorIs(t, err, node.ErrCycleDetected)

	ce, ok := node.AsCycleError(err)
	require.True(t, ok)
	require.Equal(t, []string{"Source", "A", "B", "A"}, ce.Path)
	require.Equal(t, "A", ce.Node())
	require.Equal(t, int64(1), source.Count())
}

func TestSelfLoop_Detected(t *testing.T) {
	t.Parallel()
	a := node.NewConnector("A")
	a.Attach(a)

	err := a.Send(context.Background(), message.New(0, message.NoTrail()))
	ce, ok := node.AsCycleError(err)
	require.True(t, ok)
	require.Equal(t, []string{"A", "A"}, ce.Path)
}

// chain wires source -> C0 -> ... -> C(n-1) -> sink with the given limit.
func chain(n, maxDepth int, sink node.Consumer) *node.CounterSource {
	source := node.NewCounterSource("Source", node.WithMaxDepth(maxDepth))
	var prev node.Producer = source
	for i := 0; i < n; i++ {
		c := node.NewConnector(fmt.Sprintf("C%d", i), node.WithMaxDepth(maxDepth))
		prev.Attach(c)
		prev = c
	}
	prev.Attach(sink)
	return source
}

func TestMaxDepth_Boundary(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		connectors int
		maxDepth   int
		wantErr    bool
	}{
		{name: "no connectors", connectors: 0, maxDepth: 1},
		{name: "single hop at limit one", connectors: 1, maxDepth: 1},
		{name: "one over limit one", connectors: 2, maxDepth: 1, wantErr: true},
		{name: "exactly at limit", connectors: 3, maxDepth: 3},
		{name: "one over limit", connectors: 4, maxDepth: 3, wantErr: true},
		{name: "well over limit", connectors: 5, maxDepth: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				t.Parallel()
				sink := node.NewCollectorSink("Sink")
				err := chain(tt.connectors, tt.maxDepth, sink).Trigger(context.Background(), true)

				if tt.wantErr {
					require.ErrorIs(t, err, node.ErrMaxDepthExceeded)
					require.Empty(t, sink.Deliveries())
					return
				}

				require.NoError(t, err)
				require.Len(t, sink.Deliveries(), 1)
				require.Len(t, sink.Deliveries()[0].Trail, tt.connectors+1)
			},
		)
	}
}

func TestMaxDepth_Default(t *testing.T) {
	t.Parallel()
	sink := node.NewCollectorSink("Sink")
	require.NoError(t, chain(node.DefaultMaxDepth, node.DefaultMaxDepth, sink).Trigger(context.Background(), false))
	require.Len(t, sink.Deliveries(), 1)

	err := chain(node.DefaultMaxDepth+1, node.DefaultMaxDepth, sink).Trigger(context.Background(), false)
	require.ErrorIs(t, err, node.ErrMaxDepthExceeded)
}

func TestCycleGuard_DistinctNodesSharingName(t *testing.T) {
	t.Parallel()
	source := node.NewCounterSource("Source")
	first := node.NewConnector("Relay")
	second := node.NewConnector("Relay")
	sink := node.NewCollectorSink("Sink")

	source.Attach(first)
	first.Attach(second)
	second.Attach(sink)

	require.NoError(t, source.Trigger(context.Background(), true))
	got := sink.Deliveries()
	require.Len(t, got, 1)
	require.Equal(t, []string{"Source", "Relay", "Relay"}, got[0].Trail)
}

func TestCycleGuard_SameNodeTwice(t *testing.T) {
	t.Parallel()
	source := node.NewCounterSource("Source")
	relay := node.NewConnector("Relay")
	other := node.NewConnector("Relay")

	source.Attach(relay)
	relay.Attach(other)
	other.Attach(relay)

	err := source.Trigger(context.Background(), false)
	ce, ok := node.AsCycleError(err)
	require.True(t, ok)
	require.Equal(t, []string{"Source", "Relay", "Relay", "Relay"}, ce.Path)
}

func TestRedeliver(t *testing.T) {
	t.Parallel()
	source := node.NewCounterSource("Source")
	sink := node.NewCollectorSink("Sink")
	source.Attach(sink)

	require.ErrorIs(t, source.Redeliver(context.Background(), true), node.ErrNothingToRedeliver)

	require.NoError(t, source.Trigger(context.Background(), true))
	require.NoError(t, source.Trigger(context.Background(), true))
	require.NoError(t, source.Redeliver(context.Background(), true))

	require.Equal(t, int64(2), source.Count())
	got := sink.Deliveries()
	require.Len(t, got, 3)
	require.Equal(t, int64(1), got[2].Value)
	require.Equal(t, []string{"Source"}, got[2].Trail)
}

func TestAttachDuringTraversal_AppliesToNextSend(t *testing.T) {
	t.Parallel()
	source := node.NewCounterSource("Source")
	a := node.NewConnector("A")
	late := node.NewCollectorSink("Late")

	attacher := &funcConsumer{
		name: "Attacher",
		fn: func(context.Context, message.Message) error {
			if len(a.Targets()) == 1 {
				a.Attach(late)
			}
			return nil
		},
	}

	source.Attach(a)
	a.Attach(attacher)

	require.NoError(t, source.Trigger(context.Background(), false))
	require.Empty(t, late.Deliveries())

	require.NoError(t, source.Trigger(context.Background(), false))
	require.Len(t, late.Deliveries(), 1)
	require.Equal(t, int64(1), late.Deliveries()[0].Value)
}

func TestRunIDAndPath_PropagateThroughContext(t *testing.T) {
	t.Parallel()
	source := node.NewCounterSource("Source")
	a := node.NewConnector("A")

	var seenPath []string
	probe := &funcConsumer{
		name: "Probe",
		fn: func(ctx context.Context, msg message.Message) error {
			seenPath = node.Path(ctx)
			require.Equal(t, "run-42", msg.RunID)
			require.False(t, msg.Timestamp.IsZero())
			return nil
		},
	}

	source.Attach(a)
	a.Attach(probe)

	ctx := node.ContextWithRunID(context.Background(), "run-42")
	require.NoError(t, source.Trigger(ctx, false))
	require.Equal(t, []string{"Source", "A"}, seenPath)
}

func TestTargets_ReturnsSnapshot(t *testing.T) {
	t.Parallel()
	a := node.NewConnector("A")
	a.Attach(node.NewCollectorSink("S1"))

	targets := a.Targets()
	targets[0] = node.NewCollectorSink("replaced")

	require.Equal(t, "S1", a.Targets()[0].Name())
}

func TestNodeTypes(t *testing.T) {
	t.Parallel()
	require.Equal(t, node.NodeTypeSource, node.NewCounterSource("s").Type())
	require.Equal(t, node.NodeTypeConnector, node.NewConnector("c").Type())
	require.Equal(t, node.NodeTypeSink, node.NewPrinterSink("p", &bytes.Buffer{}).Type())
	require.Equal(t, "Connector", node.NodeTypeConnector.String())
	require.Equal(t, "Unknown", node.NodeType(99).String())
}
