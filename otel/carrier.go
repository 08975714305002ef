package otel

import (
	"github.com/hugolhafner/go-pushgraph/kafka"
	"go.opentelemetry.io/otel/propagation"
)

var _ propagation.TextMapCarrier = KafkaHeadersCarrier{}

// KafkaHeadersCarrier adapts a header slice to propagation.TextMapCarrier so
// trace context can ride along with published messages.
type KafkaHeadersCarrier struct {
	Headers *[]kafka.Header
}

func NewKafkaHeadersCarrier(headers *[]kafka.Header) KafkaHeadersCarrier {
	return KafkaHeadersCarrier{Headers: headers}
}

func (c KafkaHeadersCarrier) Get(key string) string {
	for _, h := range *c.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// Set overwrites every header with key, or appends one if none exists.
func (c KafkaHeadersCarrier) Set(key, value string) {
	found := false
	for i, h := range *c.Headers {
		if h.Key == key {
			(*c.Headers)[i].Value = []byte(value)
			found = true
		}
	}

	if !found {
		*c.Headers = append(*c.Headers, kafka.Header{Key: key, Value: []byte(value)})
	}
}

func (c KafkaHeadersCarrier) Keys() []string {
	keys := make([]string, len(*c.Headers))
	for i, h := range *c.Headers {
		keys[i] = h.Key
	}
	return keys
}
