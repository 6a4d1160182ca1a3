package logger

import (
	"io"
	"log/slog"
)

func NewTestHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})
}

// NewTextHandler is used for local development where JSON lines are hard to read.
func NewTextHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})
}
