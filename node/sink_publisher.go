package node

import (
	"context"
	"fmt"
	"time"

	"github.com/hugolhafner/go-pushgraph/kafka"
	"github.com/hugolhafner/go-pushgraph/logger"
	"github.com/hugolhafner/go-pushgraph/message"
	"github.com/hugolhafner/go-pushgraph/otel"
	"github.com/hugolhafner/go-pushgraph/serde"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	HeaderTrail = "pushgraph-trail"
	HeaderRunID = "pushgraph-run-id"
)

// PublisherSink exports every message it receives to a Kafka topic. The
// record key is the sink name and the trail travels in the HeaderTrail header.
type PublisherSink struct {
	named

	topic      string
	producer   kafka.Producer
	serialiser serde.Serialiser[message.Message]

	cfg    config
	logger logger.Logger
}

func NewPublisherSink(
	name, topic string,
	producer kafka.Producer,
	serialiser serde.Serialiser[message.Message],
	opts ...Option,
) *PublisherSink {
	if serialiser == nil {
		serialiser = serde.MessageJSON()
	}

	cfg := newConfig(opts)
	return &PublisherSink{
		named:      named{name: name},
		topic:      topic,
		producer:   producer,
		serialiser: serialiser,
		cfg:        cfg,
		logger:     cfg.logger.With("node", name, "topic", topic),
	}
}

func (p *PublisherSink) Type() NodeType {
	return NodeTypeSink
}

func (p *PublisherSink) Topic() string {
	return p.topic
}

func (p *PublisherSink) Send(ctx context.Context, msg message.Message) error {
	tel := p.cfg.telemetry

	ctx, span := tel.Tracer.Start(
		ctx, p.topic+" publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.operation.type", "send"),
			otel.AttrDestination.String(p.topic),
			otel.AttrNodeName.String(p.name),
			otel.AttrMessageValue.Int64(msg.Value),
		),
	)
	defer span.End()

	tel.Deliveries.Add(
		ctx, 1, metric.WithAttributes(
			otel.AttrNodeName.String(p.name),
			otel.AttrNodeType.String(p.Type().String()),
		),
	)

	value, err := p.serialiser.Serialise(p.topic, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "serialise")
		return NewSerdeError(fmt.Errorf("serialise value: %w", err), p.name)
	}

	var headers []kafka.Header
	if msg.Trail.Enabled() {
		headers = append(headers, kafka.Header{Key: HeaderTrail, Value: []byte(msg.Trail.Header())})
	}
	if msg.RunID != "" {
		headers = append(headers, kafka.Header{Key: HeaderRunID, Value: []byte(msg.RunID)})
	}
	tel.Propagator.Inject(ctx, otel.NewKafkaHeadersCarrier(&headers))

	start := time.Now()
	err = p.producer.Send(ctx, p.topic, []byte(p.name), value, headers)
	tel.PublishDuration.Record(
		ctx, time.Since(start).Seconds(), metric.WithAttributes(otel.AttrDestination.String(p.topic)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "produce")
		p.logger.Warn("Failed to publish message", "value", msg.Value, "error", err)
		return NewProductionError(fmt.Errorf("produce to %s: %w", p.topic, err), p.name)
	}

	tel.MessagesPublished.Add(ctx, 1, metric.WithAttributes(otel.AttrDestination.String(p.topic)))
	p.logger.Debug("Published message", "value", msg.Value)
	return nil
}
