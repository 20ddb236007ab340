// Package logger builds the process logger.
package logger

import (
	"io"
	"log/slog"
)

// New returns a text logger writing to w. Debug output is only emitted when
// debug is set; otherwise warnings and errors pass through.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	return slog.New(slog.NewTextHandler(w, opts))
}
