package zaplog

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core))

	l.Debug("dispatch", "path", "connector", "request_id", "r-1")
	l.Info("opened")
	l.Warn("slow", "seconds", 2.5)
	l.Error("failed", "error", "boom")

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	require.Equal(t, zapcore.DebugLevel, entries[0].Level)
	require.Equal(t, "dispatch", entries[0].Message)
	require.Equal(t, map[string]any{"path": "connector", "request_id": "r-1"}, entries[0].ContextMap())

	require.Equal(t, zapcore.InfoLevel, entries[1].Level)
	require.Equal(t, zapcore.WarnLevel, entries[2].Level)
	require.Equal(t, 2.5, entries[2].ContextMap()["seconds"])
	require.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestLoggerRespectsCoreLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := New(zap.New(core))

	l.Debug("hidden")
	l.Info("shown")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, "shown", logs.All()[0].Message)
}

func TestNewNil(t *testing.T) {
	l := New(nil)
	require.NotNil(t, l.Sugar())
	l.Info("discarded")
}

func TestNewProductionLevel(t *testing.T) {
	l, err := NewProduction("debug")
	require.NoError(t, err)
	require.True(t, l.Sugar().Desugar().Core().Enabled(zapcore.DebugLevel))

	l, err = NewProduction("")
	require.NoError(t, err)
	require.False(t, l.Sugar().Desugar().Core().Enabled(zapcore.DebugLevel))

	_, err = NewProduction("loud")
	require.Error(t, err)
}
