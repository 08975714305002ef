package mockkafka

import (
	"context"
	"sync"

	"github.com/hugolhafner/go-pushgraph/kafka"
)

var (
	_ kafka.Producer   = (*Producer)(nil)
	_ kafka.TopicAdmin = (*Producer)(nil)
)

// ProducedRecord represents a record that was sent via the mock producer.
type ProducedRecord struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers []kafka.Header
}

// Producer is an in-memory kafka.Producer.
type Producer struct {
	mu sync.RWMutex

	produced []ProducedRecord
	topics   map[string]int32

	sendErr  func(topic string, key, value []byte) error
	flushErr error

	flushes int
	closed  bool
}

func NewProducer(opts ...Option) *Producer {
	p := &Producer{
		produced: make([]ProducedRecord, 0),
		topics:   make(map[string]int32),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Producer) Send(ctx context.Context, topic string, key, value []byte, headers []kafka.Header) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sendErr != nil {
		if err := p.sendErr(topic, key, value); err != nil {
			return err
		}
	}

	hs := make([]kafka.Header, len(headers))
	copy(hs, headers)

	p.produced = append(
		p.produced, ProducedRecord{
			Topic:   topic,
			Key:     append([]byte(nil), key...),
			Value:   append([]byte(nil), value...),
			Headers: hs,
		},
	)

	return nil
}

func (p *Producer) Flush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.flushes++
	return p.flushErr
}

func (p *Producer) CreateTopic(_ context.Context, topic string, partitions int32, _ int16) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.topics[topic]; !ok {
		p.topics[topic] = partitions
	}
	return nil
}

func (p *Producer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
}

// ProducedRecords returns a copy of every record sent so far, in order.
func (p *Producer) ProducedRecords() []ProducedRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]ProducedRecord, len(p.produced))
	copy(out, p.produced)
	return out
}

func (p *Producer) ProducedRecordsForTopic(topic string) []ProducedRecord {
	var out []ProducedRecord
	for _, r := range p.ProducedRecords() {
		if r.Topic == topic {
			out = append(out, r)
		}
	}
	return out
}

func (p *Producer) Topics() map[string]int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string]int32, len(p.topics))
	for k, v := range p.topics {
		out[k] = v
	}
	return out
}

func (p *Producer) Flushes() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.flushes
}

func (p *Producer) IsClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}
