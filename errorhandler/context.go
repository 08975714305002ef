package errorhandler

import (
	"github.com/hugolhafner/go-pushgraph/message"
)

// ErrorContext provides context about an error that occurred while pushing a
// message through the graph. It contains all the information a handler needs
// to make a decision about how to handle the error.
type ErrorContext struct {
	// Message is the message whose delivery failed.
	Message message.Message

	// Source is the name of the source that emitted the message.
	Source string

	// Error is the error that occurred during delivery.
	Error error

	// Attempt is current attempt number, 1 indexed.
	Attempt int

	// NodeName is the node where the error surfaced, empty when unknown.
	NodeName string

	// Phase indicates where in the graph the error occurred
	Phase ErrorPhase
}

func NewErrorContext(msg message.Message, err error) ErrorContext {
	return ErrorContext{
		Message: msg,
		Error:   err,
		Attempt: 1,
	}
}

func (ec ErrorContext) WithError(err error) ErrorContext {
	ec.Error = err
	return ec
}

func (ec ErrorContext) WithSource(name string) ErrorContext {
	ec.Source = name
	return ec
}

func (ec ErrorContext) WithAttempt(attempt int) ErrorContext {
	ec.Attempt = attempt
	return ec
}

func (ec ErrorContext) WithNodeName(name string) ErrorContext {
	ec.NodeName = name
	return ec
}

func (ec ErrorContext) WithPhase(phase ErrorPhase) ErrorContext {
	ec.Phase = phase
	return ec
}

func (ec ErrorContext) IncrementAttempt() ErrorContext {
	ec.Attempt++
	return ec
}
