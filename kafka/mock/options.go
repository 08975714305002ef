package mockkafka

// Option is a functional option for configuring a mock Producer.
type Option func(*Producer)

// WithSendError configures an error to be returned by all Send calls.
func WithSendError(err error) Option {
	return func(p *Producer) {
		p.sendErr = func(string, []byte, []byte) error { return err }
	}
}

// WithSendErrorFunc decides per record whether Send fails.
func WithSendErrorFunc(fn func(topic string, key, value []byte) error) Option {
	return func(p *Producer) {
		p.sendErr = fn
	}
}

// WithFlushError configures an error to be returned by Flush.
func WithFlushError(err error) Option {
	return func(p *Producer) {
		p.flushErr = err
	}
}
