package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joacominatel/omnidb/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestSetupFileAndConsole(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "omnidb.log")
	var console bytes.Buffer

	log, closer, err := Setup(config.Logging{Level: "warn", File: path}, &console)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("pool exhausted", slog.String("engine", "mysql"))
	require.NoError(t, closer.Close())

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "pool exhausted")
	assert.Contains(t, console.String(), "engine=mysql")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "pool exhausted")
	assert.Contains(t, string(raw), "source=")
}

func TestSetupWithoutOutputs(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	log, closer, err := Setup(config.Logging{}, nil)
	require.NoError(t, err)
	assert.False(t, log.Enabled(t.Context(), slog.LevelError))
	assert.NoError(t, closer.Close())
}

func TestMultiHandlerLevels(t *testing.T) {
	var debug, errOnly bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&errOnly, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	log := slog.New(h).With("engine", "sqlite").WithGroup("query")

	log.Debug("exec", "sql", "SELECT 1")
	log.Error("failed", "sql", "SELEC 1")

	assert.Contains(t, debug.String(), "engine=sqlite")
	assert.Contains(t, debug.String(), "query.sql=\"SELECT 1\"")
	assert.NotContains(t, errOnly.String(), "SELECT 1")
	assert.Contains(t, errOnly.String(), "failed")
}
