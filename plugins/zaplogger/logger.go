package zaplogger

import (
	"fmt"

	"github.com/hugolhafner/go-pushgraph/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ logger.Base = (*ZapLogger)(nil)

type ZapLogger struct {
	l *zap.Logger
}

func New(l *zap.Logger) logger.Logger {
	return logger.WrapLogger(
		&ZapLogger{
			l,
		},
	)
}

// NewConsole builds a human readable zap logger at the given level, used by
// the CLI.
func NewConsole(level logger.LogLevel) (logger.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(mapToZapLevel(level))
	cfg.DisableStacktrace = true

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}

	return New(l), nil
}

func (z *ZapLogger) Level() logger.LogLevel {
	return mapFromZapLevel(z.l.Level())
}

func (z *ZapLogger) Log(level logger.LogLevel, msg string, kv ...any) {
	fields := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, kv[i+1]))
	}

	z.l.Log(mapToZapLevel(level), msg, fields...)
}

func mapToZapLevel(level logger.LogLevel) zapcore.Level {
	switch level {
	case logger.DebugLevel:
		return zap.DebugLevel
	case logger.InfoLevel:
		return zap.InfoLevel
	case logger.WarnLevel:
		return zap.WarnLevel
	case logger.ErrorLevel:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func mapFromZapLevel(level zapcore.Level) logger.LogLevel {
	switch level {
	case zap.DebugLevel:
		return logger.DebugLevel
	case zap.InfoLevel:
		return logger.InfoLevel
	case zap.WarnLevel:
		return logger.WarnLevel
	case zap.ErrorLevel, zap.DPanicLevel, zap.PanicLevel, zap.FatalLevel:
		return logger.ErrorLevel
	default:
		return logger.InfoLevel
	}
}
