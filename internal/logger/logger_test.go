package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureJSON(t *testing.T, cfg Config) *bytes.Buffer {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	cfg.Format = LogFormatJSON
	InitLoggerWithWriter(cfg, &buf)
	return &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestInitLoggerWithWriter_BaseAttributes(t *testing.T) {
	buf := captureJSON(t, NewConfig("info", "", "casebattle", "1.2.0", "test", false))

	slog.Info("box opened", "box_id", "starter", "nonce", 7)

	entry := decodeLine(t, buf)
	assert.Equal(t, "casebattle", entry[AttrKeyService])
	assert.Equal(t, "1.2.0", entry[AttrKeyVersion])
	assert.Equal(t, "test", entry[AttrKeyEnvironment])
	assert.Equal(t, "box opened", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "starter", entry["box_id"])
	assert.Equal(t, float64(7), entry["nonce"])
}

func TestInitLoggerWithWriter_RedactsSecrets(t *testing.T) {
	buf := captureJSON(t, NewConfig("info", "", "casebattle", "dev", "test", false))

	slog.Info("seed rotated", "server_seed", "very-secret", "server_seed_hash", "abc123")

	entry := decodeLine(t, buf)
	assert.Equal(t, RedactedValue, entry["server_seed"])
	assert.Equal(t, "abc123", entry["server_seed_hash"])
	assert.NotContains(t, buf.String(), "very-secret")
}

func TestFromContext_AddsRequestAndUser(t *testing.T) {
	buf := captureJSON(t, NewConfig("info", "", "svc", "dev", "test", false))

	ctx := WithUserID(WithRequestID(context.Background(), "req-1"), "alice")
	FromContext(ctx).Info("battle joined")

	entry := decodeLine(t, buf)
	assert.Equal(t, "req-1", entry[AttrKeyRequestID])
	assert.Equal(t, "alice", entry[AttrKeyUserID])
}

func TestFromContext_EmptyContext(t *testing.T) {
	buf := captureJSON(t, NewConfig("info", "", "svc", "dev", "test", false))

	FromContext(context.Background()).Info("scheduler tick")

	entry := decodeLine(t, buf)
	assert.NotContains(t, entry, AttrKeyRequestID)
	assert.NotContains(t, entry, AttrKeyUserID)
}

func TestRequestIDContext(t *testing.T) {
	_, ok := RequestIDFromContext(context.Background())
	assert.False(t, ok)

	id := GenerateRequestID()
	got, ok := RequestIDFromContext(WithRequestID(context.Background(), id))
	require.True(t, ok)
	assert.Equal(t, id, got)
	assert.Len(t, id, 36)
}

func TestConfig_LogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for level, want := range tests {
		assert.Equal(t, want, Config{Level: level}.LogLevel(), level)
	}
	assert.True(t, Config{Format: "JSON"}.IsJSON())
	assert.False(t, Config{Format: "text"}.IsJSON())
}

func TestLevelFiltering(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	InitLoggerWithWriter(Config{Level: "warn", Format: LogFormatText}, &buf)

	slog.Info("hidden")
	assert.Zero(t, buf.Len())

	Error("shown")
	assert.Contains(t, buf.String(), "shown")
}
