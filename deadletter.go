package pushgraph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hugolhafner/go-pushgraph/errorhandler"
	"github.com/hugolhafner/go-pushgraph/kafka"
	"github.com/hugolhafner/go-pushgraph/node"
	"github.com/hugolhafner/go-pushgraph/serde"
)

var ErrNoDeadLetter = errors.New("no dead letter producer configured")

const (
	HeaderErrorSource    = "x-error-source"
	HeaderErrorTimestamp = "x-error-timestamp"
	HeaderErrorAttempt   = "x-error-attempt"
	HeaderErrorPhase     = "x-error-phase"
	HeaderErrorMessage   = "x-error-message"
	HeaderErrorNode      = "x-error-node"
)

// sendToDLQ publishes the failed message as JSON keyed by the source name.
func sendToDLQ(ctx context.Context, producer kafka.Producer, ec errorhandler.ErrorContext, topic string) error {
	if producer == nil {
		return ErrNoDeadLetter
	}

	value, err := serde.MessageJSON().Serialise(topic, ec.Message)
	if err != nil {
		return fmt.Errorf("serialise dead letter: %w", err)
	}

	headers := make([]kafka.Header, 0, 8)
	headers = append(
		headers,
		kafka.Header{Key: HeaderErrorSource, Value: []byte(ec.Source)},
		kafka.Header{Key: HeaderErrorTimestamp, Value: []byte(time.Now().Format(time.RFC3339))},
		kafka.Header{Key: HeaderErrorAttempt, Value: []byte(fmt.Sprintf("%d", ec.Attempt))},
		kafka.Header{Key: HeaderErrorPhase, Value: []byte(ec.Phase.String())},
	)

	if ec.Message.Trail.Enabled() {
		headers = append(headers, kafka.Header{Key: node.HeaderTrail, Value: []byte(ec.Message.Trail.Header())})
	}
	if ec.Message.RunID != "" {
		headers = append(headers, kafka.Header{Key: node.HeaderRunID, Value: []byte(ec.Message.RunID)})
	}
	if ec.Error != nil {
		headers = append(headers, kafka.Header{Key: HeaderErrorMessage, Value: []byte(ec.Error.Error())})
	}
	if ec.NodeName != "" {
		headers = append(headers, kafka.Header{Key: HeaderErrorNode, Value: []byte(ec.NodeName)})
	}

	return producer.Send(ctx, topic, []byte(ec.Source), value, headers)
}
