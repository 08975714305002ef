package serde

// Contramap adapts a Serialiser of B into a Serialiser of A by converting each
// value with fn before encoding.
func Contramap[A, B any](s Serialiser[B], fn func(A) B) Serialiser[A] {
	return SerialiserFunc[A](
		func(topic string, value A) ([]byte, error) {
			return s.Serialise(topic, fn(value))
		},
	)
}
