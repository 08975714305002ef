//go:build unit

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pushgraph "github.com/hugolhafner/go-pushgraph"
	"github.com/hugolhafner/go-pushgraph/logger"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestRootCommand(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd()
	require.Equal(t, "pushgraph", cmd.Use)
	require.NotEmpty(t, cmd.Short)
	require.True(t, cmd.HasSubCommands())

	for _, name := range []string{"ticks", "trail", "interval", "log-level", "brokers", "topic", "format", "max-attempts", "dlq-topic"} {
		require.NotNil(t, cmd.Flags().Lookup(name), "missing flag %q", name)
	}
}

func TestRun_DefaultTicks(t *testing.T) {
	t.Parallel()

	out := execute(t, "--log-level", "error")
	require.Equal(
		t,
		"PrinterSink \"Sink\": msg=0 trail=(Source, A, B)\n"+
			"PrinterSink \"Sink\": msg=0 trail=(Source, A, C)\n"+
			"PrinterSink \"Sink\": msg=1 trail=(Source, A, B)\n"+
			"PrinterSink \"Sink\": msg=1 trail=(Source, A, C)\n"+
			"PrinterSink \"Sink\": msg=2 trail=(Source, A, B)\n"+
			"PrinterSink \"Sink\": msg=2 trail=(Source, A, C)\n",
		out,
	)
}

func TestRun_NoTrail(t *testing.T) {
	t.Parallel()

	out := execute(t, "--log-level", "error", "--ticks", "1", "--trail=false")
	require.Equal(
		t,
		"PrinterSink \"Sink\": msg=0\n"+
			"PrinterSink \"Sink\": msg=0\n",
		out,
	)
}

func TestRun_Deterministic(t *testing.T) {
	t.Parallel()

	first := execute(t, "--log-level", "error", "--ticks", "4")
	second := execute(t, "--log-level", "error", "--ticks", "4")
	require.Equal(t, first, second)
	require.Len(t, strings.Split(strings.TrimSpace(first), "\n"), 8)
}

func TestRun_TopologyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chain.yaml")
	require.NoError(
		t, os.WriteFile(
			path, []byte(`
nodes:
  - {name: In, type: source}
  - {name: X, type: connector, parents: [In]}
  - {name: Out, type: sink, parents: [X]}
`), 0o600,
		),
	)

	out := execute(t, "--log-level", "error", "--ticks", "2", "--topology", path, "--source", "In")
	require.Equal(
		t,
		"PrinterSink \"Out\": msg=0 trail=(In, X)\n"+
			"PrinterSink \"Out\": msg=1 trail=(In, X)\n",
		out,
	)
}

func TestRun_UnknownSource(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--log-level", "error", "--source", "Nope"})
	require.ErrorIs(t, cmd.Execute(), pushgraph.ErrSourceNotFound)
}

func TestTreeCommand(t *testing.T) {
	t.Parallel()

	out := execute(t, "tree")
	require.Equal(
		t,
		"- Source (Source)\n"+
			"  - A (Connector)\n"+
			"    - B (Connector)\n"+
			"      - Sink (Sink)\n"+
			"    - C (Connector)\n",
		out,
	)
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	require.Equal(t, pushgraph.Version+"\n", execute(t, "version"))
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	require.NotNil(t, errorHandler(logger.NewNoopLogger(), &runOptions{maxAttempts: 3, dlqTopic: "dead"}))
}
