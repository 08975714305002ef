package serde

type Serde[T any] interface {
	Serialiser[T]
	Deserialiser[T]
}

type Serialiser[T any] interface {
	Serialise(topic string, value T) ([]byte, error)
}

type Deserialiser[T any] interface {
	Deserialise(topic string, data []byte) (T, error)
}

// SerialiserFunc adapts a plain function to a Serialiser.
type SerialiserFunc[T any] func(topic string, value T) ([]byte, error)

func (f SerialiserFunc[T]) Serialise(topic string, value T) ([]byte, error) {
	return f(topic, value)
}
