package log

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo}, // 默认值
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("LOG_FORMAT", "")
		t.Setenv("ENV", "")

		cfg := NewConfigFromEnv()
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "console", cfg.Format)
		assert.Equal(t, os.Stderr, cfg.Output)
	})

	t.Run("custom config", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_FORMAT", "json")
		t.Setenv("ENV", "")

		cfg := NewConfigFromEnv()
		assert.Equal(t, "debug", cfg.Level)
		assert.Equal(t, "json", cfg.Format)
	})

	t.Run("development mode", func(t *testing.T) {
		t.Setenv("ENV", "development")
		t.Setenv("LOG_LEVEL", "error") // 应该被覆盖
		t.Setenv("LOG_FORMAT", "json")

		cfg := NewConfigFromEnv()
		assert.Equal(t, "debug", cfg.Level)
		assert.Equal(t, "console", cfg.Format)
		assert.True(t, cfg.AddSource)
	})
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		expected     bool
	}{
		{"true value", "true", false, true},
		{"false value", "false", true, false},
		{"invalid value", "invalid", true, true},
		{"missing env", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.envValue)
			assert.Equal(t, tt.expected, getEnvBool("TEST_BOOL", tt.defaultValue))
		})
	}
}

func TestInit_ConsoleWithContext(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: "debug", Format: "console", Output: &buf})
	t.Cleanup(func() { Init(&Config{Level: "info", Output: os.Stderr}) })

	assert.True(t, IsDebugMode())

	ctx := WithConversation(WithRunID(context.Background(), "run-1"), "5551234567")
	NewModuleLogger("export", "router").InfoContext(ctx, "conversation opened", "file", "conversation_5551234567.txt")

	out := buf.String()
	assert.Contains(t, out, "[export/router] conversation opened")
	assert.Contains(t, out, "run_id=run-1")
	assert.Contains(t, out, "conversation=5551234567")
	assert.Contains(t, out, "service=imessage-exporter")
}

func TestInit_JSON(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: "warn", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(&Config{Level: "info", Output: os.Stderr}) })

	GetLogger().Info("dropped")
	GetLogger().Warn("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"msg":"kept"`)
	assert.False(t, IsDebugMode())
}

func TestLogCtxFromContext(t *testing.T) {
	assert.Empty(t, LogCtxFromContext(context.Background()))

	attrs := LogCtxFromContext(WithRunID(context.Background(), "abc"))
	require.Len(t, attrs, 1)
	assert.Equal(t, "run_id", attrs[0].Key)
	assert.Equal(t, "abc", attrs[0].Value.String())
}

func TestOpenDiagnosticLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "debug_log.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("stale content\n"), 0644))

	diag, err := OpenDiagnosticLog(path)
	require.NoError(t, err)
	assert.Equal(t, path, diag.Path())

	diag.Warn("Skipped message ID 7: Invalid date")
	diag.Info("Processed 3 messages, skipped 1 messages")
	require.NoError(t, diag.Close())
	require.NoError(t, diag.Close(), "重复关闭不应报错")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Skipped message ID 7: Invalid date\nProcessed 3 messages, skipped 1 messages\n", string(data))
}
