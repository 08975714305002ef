package kafka

import (
	"context"
)

// Producer publishes records. Sinks that export messages out of the graph
// depend on this interface rather than on a concrete client.
type Producer interface {
	Send(ctx context.Context, topic string, key, value []byte, headers []Header) error
	Flush(ctx context.Context) error
	Close()
}

// TopicAdmin can create topics ahead of publishing.
type TopicAdmin interface {
	CreateTopic(ctx context.Context, topic string, partitions int32, replicationFactor int16) error
}
