package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/hugolhafner/dskit/backoff"
	pushgraph "github.com/hugolhafner/go-pushgraph"
	"github.com/hugolhafner/go-pushgraph/errorhandler"
	"github.com/hugolhafner/go-pushgraph/kafka"
	"github.com/hugolhafner/go-pushgraph/logger"
	"github.com/hugolhafner/go-pushgraph/node"
	"github.com/hugolhafner/go-pushgraph/plugins/zaplogger"
	"github.com/hugolhafner/go-pushgraph/serde"
	"github.com/hugolhafner/go-pushgraph/topology"
	"github.com/spf13/cobra"
)

type runOptions struct {
	ticks       int
	trail       bool
	interval    time.Duration
	logLevel    string
	brokers     []string
	topic       string
	format      string
	createTopic bool
	maxAttempts int
	retryDelay  time.Duration
	dlqTopic    string
	runID       string
	topology    string
	source      string
}

func newRootCmd() *cobra.Command {
	opts := &runOptions{}

	root := &cobra.Command{
		Use:   "pushgraph",
		Short: "Run the diamond push graph demo",
		Long: `pushgraph triggers a counter source wired as
Source -> A -> {B, C} -> Sink and prints every message that reaches the sink,
optionally with the trail of nodes it passed through. With --brokers set, the
same messages are also published to a Kafka topic.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	flags := root.Flags()
	flags.IntVar(&opts.ticks, "ticks", 3, "Number of ticks to run, 0 runs until interrupted")
	flags.BoolVar(&opts.trail, "trail", true, "Track and print the trail of visited nodes")
	flags.DurationVar(&opts.interval, "interval", 0, "Pause between ticks")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.StringSliceVar(&opts.brokers, "brokers", nil, "Kafka bootstrap servers; enables publishing")
	flags.StringVar(&opts.topic, "topic", "pushgraph", "Topic to publish messages to")
	flags.StringVar(&opts.format, "format", serde.FormatJSON, "Published message format (json, protobuf, text)")
	flags.BoolVar(&opts.createTopic, "create-topic", false, "Create the publish topic before running")
	flags.IntVar(&opts.maxAttempts, "max-attempts", 1, "Delivery attempts per tick before giving up")
	flags.DurationVar(&opts.retryDelay, "retry-delay", 100*time.Millisecond, "Delay between delivery attempts")
	flags.StringVar(&opts.dlqTopic, "dlq-topic", "", "Publish ticks that exhaust their attempts to this topic and continue")
	flags.StringVar(&opts.runID, "run-id", "", "Run id attached to every message, random when empty")
	flags.StringVar(&opts.topology, "topology", "", "YAML topology file to run instead of the diamond demo")
	flags.StringVar(&opts.source, "source", "Source", "Source node to trigger")

	root.AddCommand(newTreeCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the demo topology",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			topo, err := topology.Diamond(topology.Printer(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			return topo.PrintTree(cmd.OutOrStdout())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), pushgraph.Version)
		},
	}
}

func runDemo(ctx context.Context, out io.Writer, opts *runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	l, err := zaplogger.NewConsole(logger.ParseLevel(opts.logLevel))
	if err != nil {
		return err
	}

	var producer *kafka.KgoProducer
	var publisher topology.SinkFactory
	if len(opts.brokers) > 0 {
		serialiser, err := serde.MessageFormat(opts.format)
		if err != nil {
			return err
		}

		producer, err = kafka.NewKgoProducer(
			kafka.WithBootstrapServers(opts.brokers),
			kafka.WithClientID("pushgraph"),
			kafka.WithLogger(l),
		)
		if err != nil {
			return fmt.Errorf("create producer: %w", err)
		}
		defer producer.Close()

		if err := producer.Ping(ctx); err != nil {
			return fmt.Errorf("ping brokers %v: %w", opts.brokers, err)
		}

		if opts.createTopic {
			if err := producer.CreateTopic(ctx, opts.topic, 1, 1); err != nil {
				return fmt.Errorf("create topic %s: %w", opts.topic, err)
			}
		}

		publisher = topology.Publisher(opts.topic, producer, serialiser)
	}

	builder, err := newBuilder(out, publisher, opts, node.WithLogger(l))
	if err != nil {
		return err
	}

	topo, err := builder.Build()
	if err != nil {
		return fmt.Errorf("build topology: %w", err)
	}

	driverOpts := []pushgraph.ConfigOption{
		pushgraph.WithLogger(l),
		pushgraph.WithTrail(opts.trail),
		pushgraph.WithTicks(opts.ticks),
		pushgraph.WithInterval(opts.interval),
		pushgraph.WithRunID(opts.runID),
		pushgraph.WithErrorHandler(errorHandler(l, opts)),
	}
	if producer != nil {
		driverOpts = append(driverOpts, pushgraph.WithDeadLetter(producer))
	}

	d, err := pushgraph.NewDriver(topo, opts.source, driverOpts...)
	if err != nil {
		return err
	}

	if err := d.Run(ctx); err != nil {
		return err
	}

	if producer != nil {
		if err := producer.Flush(context.WithoutCancel(ctx)); err != nil {
			return fmt.Errorf("flush producer: %w", err)
		}
	}

	l.Info("Run complete", "ticks", d.Count(), "run_id", d.RunID())
	return nil
}

// newBuilder declares the topology to run: the file given with --topology, or
// the diamond demo with an extra Export sink when publishing is enabled.
func newBuilder(
	out io.Writer, publisher topology.SinkFactory, opts *runOptions, nodeOpts ...node.Option,
) (*topology.Builder, error) {
	if opts.topology != "" {
		f, err := topology.LoadFile(opts.topology)
		if err != nil {
			return nil, err
		}

		sinks := map[string]topology.SinkFactory{
			topology.DefaultSinkKind: topology.Printer(out),
		}
		if publisher != nil {
			sinks["publisher"] = publisher
		}
		return f.Builder(sinks, nodeOpts...)
	}

	builder := topology.NewBuilder(nodeOpts...).
		AddSource("Source").
		AddConnector("A", "Source").
		AddConnector("B", "A").
		AddConnector("C", "A").
		AddSink("Sink", topology.Printer(out), "B", "C")
	if publisher != nil {
		builder.AddSink("Export", publisher, "B", "C")
	}
	return builder, nil
}

func errorHandler(l logger.Logger, opts *runOptions) errorhandler.Handler {
	var fallback errorhandler.Handler = errorhandler.LogAndFail(l)
	if opts.dlqTopic != "" {
		fallback = errorhandler.WithDLQ(opts.dlqTopic, errorhandler.LogAndContinue(l))
	}

	var h errorhandler.Handler = fallback
	if opts.maxAttempts > 1 {
		h = errorhandler.WithMaxAttempts(opts.maxAttempts, backoff.NewFixed(opts.retryDelay), fallback)
	}

	return errorhandler.ActionLogger(l, logger.DebugLevel, h)
}
