package kafka

// Header represents a single Kafka record header
// kafka needs to support multiple headers with duplicate keys
type Header struct {
	Key   string
	Value []byte
}

// HeaderValue returns the value of the first header matching the given key
// Returns (nil, false) if no header with that key exists
func HeaderValue(headers []Header, key string) ([]byte, bool) {
	for _, h := range headers {
		if h.Key == key {
			return h.Value, true
		}
	}
	return nil, false
}
