package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConfigs(t *testing.T) {
	dev := DefaultConfig()
	assert.Equal(t, "debug", dev.Level)
	assert.Equal(t, "console", dev.Format)
	assert.Equal(t, "stdout", dev.Output)

	prod := ProductionConfig()
	assert.Equal(t, "info", prod.Level)
	assert.Equal(t, "json", prod.Format)
}

func TestNew(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		l, err := New(nil)
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := New(&Config{Level: "chatty"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		_, err := New(&Config{Format: "xml"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log format")
	})

	t.Run("rejects unwritable output", func(t *testing.T) {
		_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "app.log")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "open log output")
	})
}

func TestNewForEnvironment(t *testing.T) {
	prod, err := NewForEnvironment("production")
	require.NoError(t, err)
	assert.False(t, prod.Core().Enabled(zapcore.DebugLevel))

	dev, err := NewForEnvironment("development")
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lvl, err := parseLevel(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, lvl)
		})
	}
}

func TestFileOutput_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "print.log")
	l, err := New(&Config{Level: "info", Format: "json", Output: path, Service: "fitrobit-print"})
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("document rendered", zap.String("doc_type", "RECEIPT"), zap.Int("pages", 1))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "document rendered", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "fitrobit-print", entry["service"])
	assert.Equal(t, "RECEIPT", entry["doc_type"])
	assert.Equal(t, float64(1), entry["pages"])
}

func TestFileOutput_Console(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	l, err := New(&Config{Level: "debug", Format: "console", Output: path})
	require.NoError(t, err)

	l.Warn("image skipped")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "image skipped")
	assert.Contains(t, string(data), "WARN")
}

func TestNamedAndSync(t *testing.T) {
	assert.NotNil(t, Named(nil, "engine"))
	assert.NoError(t, Sync(zap.NewNop()))
}
