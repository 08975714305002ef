//go:build unit

package kafka

import (
	"testing"

	"github.com/hugolhafner/go-pushgraph/logger"
	mocklogger "github.com/hugolhafner/go-pushgraph/logger/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

func TestKgoLogger_LevelMapping(t *testing.T) {
	t.Parallel()
	levels := []logger.LogLevel{logger.DebugLevel, logger.InfoLevel, logger.WarnLevel, logger.ErrorLevel}
	for _, l := range levels {
		require.Equal(t, l, mapFromKgoLevel(mapToKgoLevel(l)))
	}
	require.Equal(t, logger.WarnLevel, mapFromKgoLevel(kgo.LogLevelNone))
}

func TestKgoLogger_Log(t *testing.T) {
	t.Parallel()
	l := mocklogger.New()
	kl := newKgoLogger(l)

	kl.Log(kgo.LogLevelInfo, "metadata refreshed", "broker", 1)

	require.Equal(t, kgo.LogLevelDebug, kl.Level())
	l.AssertCalled(t, logger.InfoLevel, "metadata refreshed", "broker", 1)
}

func TestConvertToKgoHeaders(t *testing.T) {
	t.Parallel()
	headers := convertToKgoHeaders([]Header{{Key: "pushgraph-trail", Value: []byte("Source,A")}})
	require.Equal(t, []kgo.RecordHeader{{Key: "pushgraph-trail", Value: []byte("Source,A")}}, headers)

	v, ok := HeaderValue([]Header{{Key: "a", Value: []byte("1")}, {Key: "a", Value: []byte("2")}}, "a")
	require.True(t, ok)
	require.Equal(t, []byte("1"), v)

	_, ok = HeaderValue(nil, "missing")
	require.False(t, ok)
}
