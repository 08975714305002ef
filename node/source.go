package node

import (
	"context"
	"fmt"
	"time"

	"github.com/hugolhafner/go-pushgraph/logger"
	"github.com/hugolhafner/go-pushgraph/message"
)

// CounterSource emits its counter value on every Trigger. The counter starts
// at zero and grows by exactly one per Trigger call.
type CounterSource struct {
	named
	fanout

	count   int64
	emitted bool

	cfg    config
	logger logger.Logger
}

func NewCounterSource(name string, opts ...Option) *CounterSource {
	cfg := newConfig(opts)
	return &CounterSource{
		named:  named{name: name},
		cfg:    cfg,
		logger: cfg.logger.With("node", name),
	}
}

func (s *CounterSource) Type() NodeType {
	return NodeTypeSource
}

// Count returns the number of Trigger calls made so far.
func (s *CounterSource) Count() int64 {
	return s.count
}

// Trigger sends the current count to every target, seeding the trail with the
// source's name when trail is set, then advances the counter. The counter
// advances even when a delivery fails.
func (s *CounterSource) Trigger(ctx context.Context, trail bool) error {
	value := s.count
	defer func() {
		s.count++
		s.emitted = true
	}()

	return s.emit(ctx, value, trail)
}

// Redeliver re-sends the most recently emitted value without touching the
// counter.
func (s *CounterSource) Redeliver(ctx context.Context, trail bool) error {
	if !s.emitted {
		return ErrNothingToRedeliver
	}

	s.logger.Debug("Redelivering message", "value", s.count-1)
	return s.emit(ctx, s.count-1, trail)
}

func (s *CounterSource) emit(ctx context.Context, value int64, trail bool) error {
	ctx, err := enter(ctx, s, s.cfg.maxDepth)
	if err != nil {
		return err
	}

	t := message.NoTrail()
	if trail {
		t = message.NewTrail(s.name)
	}

	msg := message.New(value, t).WithMetadata(
		message.Metadata{
			Timestamp: time.Now(),
			RunID:     RunIDFromContext(ctx),
		},
	)

	for _, target := range s.Targets() {
		s.logger.Debug("Sending message", "target", target.Name(), "value", value)
		if err := target.Send(ctx, msg); err != nil {
			return fmt.Errorf("send %s -> %s: %w", s.name, target.Name(), err)
		}
	}

	return nil
}
