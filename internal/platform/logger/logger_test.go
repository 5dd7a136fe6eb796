package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/blokmap/blokmap-api/internal/config"
	"github.com/blokmap/blokmap-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWithWriter_RespectsLevel(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	tests := []struct {
		name       string
		level      string
		logDebug   bool
		logWarning bool
	}{
		{name: "debug", level: "debug", logDebug: true, logWarning: true},
		{name: "info", level: "info", logDebug: false, logWarning: true},
		{name: "upper case", level: "WARN", logDebug: false, logWarning: true},
		{name: "error", level: "error", logDebug: false, logWarning: false},
		{name: "invalid falls back to info", level: "verbose", logDebug: false, logWarning: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := logger.SetupWithWriter(config.ServerConfig{LogLevel: tt.level}, &buf)

			l.Debug("debug message")
			assert.Equal(t, tt.logDebug, bytes.Contains(buf.Bytes(), []byte("debug message")))

			l.Warn("warn message")
			assert.Equal(t, tt.logWarning, bytes.Contains(buf.Bytes(), []byte("warn message")))
		})
	}
}

func TestSetupWithWriter_EmitsJSONAndSetsDefault(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	l := logger.SetupWithWriter(config.ServerConfig{LogLevel: "info"}, &buf)
	assert.Same(t, l, slog.Default())

	slog.Info("hello", "component", "test")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "test", entry["component"])
}

func TestContextLogger(t *testing.T) {
	buf, base := logger.SetupTestLogger(t)

	fallback := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.Same(t, base, logger.FromContext(context.Background()))

	scoped := base.With("trace_id", "abc123")
	ctx := logger.WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, logger.FromContext(ctx))
	assert.Same(t, scoped, logger.FromContextOrDefault(ctx, fallback))

	logger.FromContext(ctx).Info("scoped message")
	logger.AssertLogContains(t, buf, `"trace_id":"abc123"`)

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "scoped message", entries[0]["msg"])
}
