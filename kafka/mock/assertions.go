package mockkafka

import (
	"bytes"
	"testing"

	"github.com/hugolhafner/go-pushgraph/kafka"
	"github.com/stretchr/testify/require"
)

// AssertProducedCount verifies that exactly n records were produced.
func (p *Producer) AssertProducedCount(tb testing.TB, expected int) {
	tb.Helper()

	actual := len(p.ProducedRecords())
	require.Equal(tb, expected, actual, "expected %d records, got %d", expected, actual)
}

// AssertProducedCountForTopic verifies that exactly n records were produced to a topic.
func (p *Producer) AssertProducedCountForTopic(tb testing.TB, topic string, expected int) {
	tb.Helper()

	actual := len(p.ProducedRecordsForTopic(topic))
	require.Equal(tb, expected, actual, "expected %d records produced to topic %q, got %d", expected, topic, actual)
}

// AssertProduced verifies that a record with the given key and value was produced to the topic.
func (p *Producer) AssertProduced(tb testing.TB, topic string, key, value []byte) {
	tb.Helper()

	for _, r := range p.ProducedRecordsForTopic(topic) {
		if bytes.Equal(r.Key, key) && bytes.Equal(r.Value, value) {
			return
		}
	}

	tb.Errorf(
		"expected record with key=%q value=%q to be produced to topic %q, but it was not found",
		string(key), string(value), topic,
	)
}

// AssertProducedString is a convenience method for string keys and values.
func (p *Producer) AssertProducedString(tb testing.TB, topic, key, value string) {
	tb.Helper()
	p.AssertProduced(tb, topic, []byte(key), []byte(value))
}

// AssertHeader verifies that the i-th produced record carries header key with value.
func (p *Producer) AssertHeader(tb testing.TB, i int, key, value string) {
	tb.Helper()

	records := p.ProducedRecords()
	require.Less(tb, i, len(records), "record %d was not produced", i)

	got, ok := kafka.HeaderValue(records[i].Headers, key)
	require.True(tb, ok, "record %d has no header %q", i, key)
	require.Equal(tb, value, string(got))
}
