// Package logging builds the application logger. The terminal belongs to the
// UI, so records are written to a file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/glabrego/headlines-cli/internal/config"
)

// DiscardFile disables logging when used as the log path.
const DiscardFile = "-"

// Open returns a logger for env writing to path, and a close func for the file.
func Open(env, path string) (*slog.Logger, func() error, error) {
	if path == "" || path == DiscardFile {
		return New(env, io.Discard), func() error { return nil }, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(env, f), f.Close, nil
}

// New configures slog by environment: text/debug locally, JSON/debug in dev,
// JSON/info in prod.
func New(env string, w io.Writer) *slog.Logger {
	switch env {
	case config.EnvDev:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case config.EnvProd:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
