package otel

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	traceNoop "go.opentelemetry.io/otel/trace/noop"
)

const scopeName = "github.com/hugolhafner/go-pushgraph"

// Telemetry holds all OpenTelemetry instruments for the graph.
// When no providers are configured, all instruments are noops with zero overhead
type Telemetry struct {
	Tracer     trace.Tracer
	Propagator propagation.TextMapPropagator

	// Source metrics
	Ticks        metric.Int64Counter
	TickDuration metric.Float64Histogram

	// Node metrics
	Deliveries metric.Int64Counter
	Rendered   metric.Int64Counter

	// Producer metrics
	MessagesPublished metric.Int64Counter
	PublishDuration   metric.Float64Histogram

	// Error metrics
	Errors              metric.Int64Counter
	ErrorHandlerActions metric.Int64Counter
}

// NewTelemetry creates a Telemetry instance from the given providers.
// all providers are optional and defaulted to noops if nil
func NewTelemetry(tp trace.TracerProvider, mp metric.MeterProvider, prop propagation.TextMapPropagator) (
	*Telemetry, error,
) {
	if tp == nil {
		tp = traceNoop.NewTracerProvider()
	}
	if mp == nil {
		mp = noop.NewMeterProvider()
	}
	if prop == nil {
		prop = propagation.TraceContext{}
	}

	tracer := tp.Tracer(scopeName)
	meter := mp.Meter(scopeName)

	ticks, err := meter.Int64Counter(
		"pushgraph.source.ticks",
		metric.WithDescription("Source trigger calls"),
	)
	if err != nil {
		return nil, err
	}

	tickDuration, err := meter.Float64Histogram(
		"pushgraph.tick.duration",
		metric.WithDescription("Time for one trigger to reach every sink"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	deliveries, err := meter.Int64Counter(
		"pushgraph.node.deliveries",
		metric.WithDescription("Messages received by a node"),
	)
	if err != nil {
		return nil, err
	}

	rendered, err := meter.Int64Counter(
		"pushgraph.sink.rendered",
		metric.WithDescription("Messages rendered by printer sinks"),
	)
	if err != nil {
		return nil, err
	}

	published, err := meter.Int64Counter(
		"messaging.producer.messages",
		metric.WithDescription("Messages published by publisher sinks"),
	)
	if err != nil {
		return nil, err
	}

	publishDuration, err := meter.Float64Histogram(
		"pushgraph.publish.duration",
		metric.WithDescription("Time per Send() call"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	errors, err := meter.Int64Counter(
		"pushgraph.errors",
		metric.WithDescription("Delivery errors encountered"),
	)
	if err != nil {
		return nil, err
	}

	errorHandlerActions, err := meter.Int64Counter(
		"pushgraph.error_handler.actions",
		metric.WithDescription("Error handler decisions"),
	)
	if err != nil {
		return nil, err
	}

	return &Telemetry{
		Tracer:              tracer,
		Propagator:          prop,
		Ticks:               ticks,
		TickDuration:        tickDuration,
		Deliveries:          deliveries,
		Rendered:            rendered,
		MessagesPublished:   published,
		PublishDuration:     publishDuration,
		Errors:              errors,
		ErrorHandlerActions: errorHandlerActions,
	}, nil
}

// Noop returns a Telemetry instance with all noop instruments
func Noop() *Telemetry {
	t, _ := NewTelemetry(nil, nil, nil)
	return t
}
