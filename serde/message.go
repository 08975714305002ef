package serde

import (
	"fmt"
	"strconv"

	"github.com/hugolhafner/go-pushgraph/message"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	FormatJSON     = "json"
	FormatProtobuf = "protobuf"
	FormatText     = "text"
)

// messageEnvelope is the JSON wire form of a message. Trail is omitted when
// trail tracking is disabled and encodes as [] when enabled but empty.
type messageEnvelope struct {
	Value int64     `json:"value"`
	Trail *[]string `json:"trail,omitempty"`
	RunID string    `json:"run_id,omitempty"`
}

type messageJSONSerde struct {
	inner Serde[messageEnvelope]
}

// MessageJSON encodes messages as {"value":N,"trail":[...]}.
func MessageJSON() Serde[message.Message] {
	return messageJSONSerde{inner: JSON[messageEnvelope]()}
}

func (s messageJSONSerde) Serialise(topic string, m message.Message) ([]byte, error) {
	env := messageEnvelope{
		Value: m.Value,
		RunID: m.RunID,
	}
	if m.Trail.Enabled() {
		names := m.Trail.Names()
		env.Trail = &names
	}

	return s.inner.Serialise(topic, env)
}

func (s messageJSONSerde) Deserialise(topic string, data []byte) (message.Message, error) {
	env, err := s.inner.Deserialise(topic, data)
	if err != nil {
		return message.Message{}, err
	}

	trail := message.NoTrail()
	if env.Trail != nil {
		trail = message.NewTrail(*env.Trail...)
	}

	m := message.New(env.Value, trail)
	m.RunID = env.RunID
	return m, nil
}

// MessageProtobuf encodes only the payload, as a google.protobuf.Int64Value.
// The trail is expected to travel out of band, in a record header.
func MessageProtobuf() Serialiser[message.Message] {
	return Contramap[message.Message, *wrapperspb.Int64Value](
		Protobuf[*wrapperspb.Int64Value](), func(m message.Message) *wrapperspb.Int64Value {
			return wrapperspb.Int64(m.Value)
		},
	)
}

// MessageText encodes the payload as its decimal representation.
func MessageText() Serialiser[message.Message] {
	return Contramap[message.Message, string](
		String(), func(m message.Message) string {
			return strconv.FormatInt(m.Value, 10)
		},
	)
}

// MessageFormat looks up a message serialiser by name.
func MessageFormat(name string) (Serialiser[message.Message], error) {
	switch name {
	case FormatJSON:
		return MessageJSON(), nil
	case FormatProtobuf:
		return MessageProtobuf(), nil
	case FormatText:
		return MessageText(), nil
	default:
		return nil, fmt.Errorf("unknown message format %q", name)
	}
}
