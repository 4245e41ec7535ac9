// Package zaplog adapts go.uber.org/zap to the warehouse Logger interface.
//
// # Usage
//
//	logger, _ := zap.NewProduction()
//	client := warehouse.NewClient(warehouse.WithLogger(zaplog.New(logger)))
//
// Key-value pairs are passed through to the sugared logger, so they become
// structured fields.
package zaplog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arloliu/warehouse/types"
)

// Logger implements types.Logger on a zap.SugaredLogger.
type Logger struct {
	sugar *zap.SugaredLogger
}

// Compile-time assertion that Logger implements types.Logger.
var _ types.Logger = (*Logger)(nil)

// New wraps a zap.Logger. A nil logger yields a no-op logger.
//
// Parameters:
//   - logger: The zap logger to write to
//
// Returns:
//   - *Logger: A logger ready for use with warehouse.WithLogger
func New(logger *zap.Logger) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Logger{sugar: logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

// NewProduction builds a JSON logger at the given level.
//
// Accepted levels are those of zapcore.ParseLevel ("debug", "info", "warn",
// "error"). An empty level means info.
func NewProduction(level string) (*Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		lvl = parsed
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	logger, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, err
	}

	return New(logger), nil
}

// Sugar returns the underlying sugared logger.
func (l *Logger) Sugar() *zap.SugaredLogger {
	return l.sugar
}

// Debug logs a message at debug level.
func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, keysAndValues...)
}

// Info logs a message at info level.
func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.sugar.Infow(msg, keysAndValues...)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.sugar.Warnw(msg, keysAndValues...)
}

// Error logs a message at error level.
func (l *Logger) Error(msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
