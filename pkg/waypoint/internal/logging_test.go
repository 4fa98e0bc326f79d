package internal

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The loggers are process-wide, so one test covers their whole lifecycle.
func TestLoggers(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "waypoint.log")
	SetOutput(&console)
	SetLogPath(path)

	SetRawLogLevel("warning")
	GetLogger().Info("hidden")
	GetLogger().Warn("shown", "n", 1)

	SetInternalLogLevel(slog.LevelDebug)
	GetInternalLogger().Debug("dispatch")

	CloseLogger()

	out := console.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"component":"waypoint"`)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(data), "file receives the same lines as the console")
}

func TestParseLevel(t *testing.T) {
	for raw, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"Warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, ok := ParseLevel(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
	got, ok := ParseLevel("loud")
	assert.False(t, ok)
	assert.Equal(t, slog.LevelInfo, got)
}
