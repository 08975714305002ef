package message

import (
	"time"
)

type Metadata struct {
	Timestamp time.Time
	// RunID identifies the driver run that emitted the message.
	RunID string
}

// Message is the unit pushed through the graph: an integer payload plus the
// optional trail of nodes it has visited.
type Message struct {
	Value int64
	Trail Trail
	Metadata
}

func New(value int64, trail Trail) Message {
	return Message{
		Value: value,
		Trail: trail,
	}
}

// WithTrail returns a copy of m carrying t.
func (m Message) WithTrail(t Trail) Message {
	m.Trail = t
	return m
}

func (m Message) WithMetadata(meta Metadata) Message {
	m.Metadata = meta
	return m
}
