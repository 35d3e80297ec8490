package log

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerKey struct{}

var defaultLogger *zap.Logger

func init() {
	defaultLogger = newLogger(zapcore.InfoLevel)
}

func newLogger(level zapcore.Level) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	l, err := cfg.Build(zap.AddStacktrace(zapcore.FatalLevel))
	if err != nil {
		panic(err)
	}
	return l
}

// SetLevel replaces the default logger with one logging at the given level.
func SetLevel(level zapcore.Level) {
	defaultLogger = newLogger(level)
}

// Logger returns the logger stored in ctx, or the default logger.
func Logger(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return l
	}
	return defaultLogger
}

// With returns a context whose logger carries the additional key/value field.
func With(ctx context.Context, key, value string) context.Context {
	return context.WithValue(ctx, loggerKey{}, Logger(ctx).With(zap.String(key, value)))
}

// Fatal logs the message and exits with a non-zero status.
func Fatal(msg string, fields ...zap.Field) {
	defaultLogger.Error(msg, fields...)
	defaultLogger.Sync()
	os.Exit(1)
}
