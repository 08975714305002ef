package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hugolhafner/go-pushgraph/logger"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/kmsg"
)

var (
	_ Producer   = (*KgoProducer)(nil)
	_ TopicAdmin = (*KgoProducer)(nil)
)

type KgoProducerConfig struct {
	BootstrapServers []string
	ClientID         string
	ProduceTimeout   time.Duration
	Linger           time.Duration

	Logger logger.Logger
}

func defaultConfig() KgoProducerConfig {
	return KgoProducerConfig{
		BootstrapServers: []string{"localhost:9092"},
		ClientID:         "go-pushgraph",
		ProduceTimeout:   10 * time.Second,
		Logger:           logger.NewNoopLogger(),
	}
}

type KgoOption func(*KgoProducerConfig)

func WithBootstrapServers(servers []string) KgoOption {
	return func(cfg *KgoProducerConfig) {
		cfg.BootstrapServers = servers
	}
}

func WithClientID(id string) KgoOption {
	return func(cfg *KgoProducerConfig) {
		cfg.ClientID = id
	}
}

func WithProduceTimeout(d time.Duration) KgoOption {
	return func(cfg *KgoProducerConfig) {
		if d > 0 {
			cfg.ProduceTimeout = d
		}
	}
}

func WithLinger(d time.Duration) KgoOption {
	return func(cfg *KgoProducerConfig) {
		cfg.Linger = d
	}
}

func WithLogger(l logger.Logger) KgoOption {
	return func(cfg *KgoProducerConfig) {
		cfg.Logger = l.With("client", "kgo")
	}
}

// KgoProducer is a Producer backed by a franz-go client.
type KgoProducer struct {
	client *kgo.Client
	config KgoProducerConfig

	logger logger.Logger
}

func NewKgoProducer(opts ...KgoOption) (*KgoProducer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	kgoOpts := []kgo.Opt{
		kgo.SeedBrokers(cfg.BootstrapServers...),
		kgo.ClientID(cfg.ClientID),
		kgo.WithLogger(newKgoLogger(cfg.Logger)),
		kgo.ProduceRequestTimeout(cfg.ProduceTimeout),
		kgo.ProducerLinger(cfg.Linger),
	}

	client, err := kgo.NewClient(kgoOpts...)
	if err != nil {
		return nil, fmt.Errorf("create kgo client: %w", err)
	}

	return &KgoProducer{client: client, config: cfg, logger: cfg.Logger}, nil
}

func (k *KgoProducer) Send(ctx context.Context, topic string, key, value []byte, headers []Header) error {
	record := &kgo.Record{
		Topic:   topic,
		Key:     key,
		Value:   value,
		Headers: convertToKgoHeaders(headers),
	}

	k.logger.Debug("Sending record", "topic", topic, "key", string(key))

	results := k.client.ProduceSync(ctx, record)
	return results.FirstErr()
}

func (k *KgoProducer) Flush(ctx context.Context) error {
	return k.client.Flush(ctx)
}

// Ping checks that at least one seed broker answers.
func (k *KgoProducer) Ping(ctx context.Context) error {
	return k.client.Ping(ctx)
}

// CreateTopic creates topic, treating an already existing topic as success.
func (k *KgoProducer) CreateTopic(ctx context.Context, topic string, partitions int32, replicationFactor int16) error {
	req := kmsg.NewPtrCreateTopicsRequest()
	rt := kmsg.NewCreateTopicsRequestTopic()
	rt.Topic = topic
	rt.NumPartitions = partitions
	rt.ReplicationFactor = replicationFactor
	req.Topics = append(req.Topics, rt)

	resp, err := req.RequestWith(ctx, k.client)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}

	for _, t := range resp.Topics {
		if err := kerr.ErrorForCode(t.ErrorCode); err != nil {
			if errors.Is(err, kerr.TopicAlreadyExists) {
				k.logger.Debug("Topic already exists", "topic", t.Topic)
				continue
			}
			return fmt.Errorf("create topic %s: %w", t.Topic, err)
		}
		k.logger.Info("Created topic", "topic", t.Topic, "partitions", partitions)
	}

	return nil
}

func (k *KgoProducer) Close() {
	k.client.Close()
}

func convertToKgoHeaders(headers []Header) []kgo.RecordHeader {
	kgoHeaders := make([]kgo.RecordHeader, len(headers))
	for i, h := range headers {
		kgoHeaders[i] = kgo.RecordHeader{Key: h.Key, Value: h.Value}
	}
	return kgoHeaders
}
