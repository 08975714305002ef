package node

import (
	"errors"
	"strings"
)

var (
	ErrCycleDetected      = errors.New("cycle detected")
	ErrMaxDepthExceeded   = errors.New("maximum traversal depth exceeded")
	ErrNothingToRedeliver = errors.New("source has not emitted a message yet")
)

// CycleError reports the hop path that led back to an already visited node.
// The last element of Path is the node that was revisited.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return ErrCycleDetected.Error() + ": " + strings.Join(e.Path, " -> ")
}

func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}

// Node returns the node that closed the cycle.
func (e *CycleError) Node() string {
	if len(e.Path) == 0 {
		return ""
	}
	return e.Path[len(e.Path)-1]
}

func AsCycleError(err error) (*CycleError, bool) {
	var ce *CycleError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// RenderError wraps failures writing a message to a printer sink's output.
type RenderError struct {
	Cause error
	Node  string
}

func (e *RenderError) Error() string {
	return e.Cause.Error()
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

func NewRenderError(cause error, node string) error {
	return &RenderError{Cause: cause, Node: node}
}

func AsRenderError(err error) (*RenderError, bool) {
	var re *RenderError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// SerdeError wraps errors that occur while encoding a message for publishing.
type SerdeError struct {
	Cause error
	Node  string
}

func (e *SerdeError) Error() string {
	return e.Cause.Error()
}

func (e *SerdeError) Unwrap() error {
	return e.Cause
}

func NewSerdeError(cause error, node string) error {
	return &SerdeError{Cause: cause, Node: node}
}

func AsSerdeError(err error) (*SerdeError, bool) {
	var se *SerdeError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ProductionError wraps errors that occur during sink production.
type ProductionError struct {
	Cause error
	Node  string
}

func (e *ProductionError) Error() string {
	return e.Cause.Error()
}

func (e *ProductionError) Unwrap() error {
	return e.Cause
}

func NewProductionError(cause error, node string) error {
	return &ProductionError{Cause: cause, Node: node}
}

func AsProductionError(err error) (*ProductionError, bool) {
	var pe *ProductionError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
