// Package logger builds the slog handlers used by omnidb.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joacominatel/omnidb/internal/config"
)

// ParseLevel maps a config level name to a slog level. Unknown names are info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup builds the process logger and installs it as the slog default.
// Records go to the configured file and, when console is non-nil, to console
// as well. The TUI passes a nil console since it owns the terminal.
// The returned closer releases the log file.
func Setup(cfg config.Logging, console io.Writer) (*slog.Logger, io.Closer, error) {
	var handlers []slog.Handler
	level := ParseLevel(cfg.Level)
	closer := io.Closer(nopCloser{})

	if console != nil {
		handlers = append(handlers, slog.NewTextHandler(console, &slog.HandlerOptions{Level: level}))
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		logFile, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		handlers = append(handlers, slog.NewTextHandler(logFile, &slog.HandlerOptions{
			Level: level, AddSource: true,
		}))
		closer = logFile
	}

	var handler slog.Handler = slog.DiscardHandler
	if len(handlers) > 0 {
		handler = NewMultiHandler(handlers...)
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
