package logger

import (
	"log/slog"
	"os"
	"strings"
)

var stderr = os.Stderr

func New(level string, handler func(level slog.Level) slog.Handler) *slog.Logger {
	h := handler(getSlogLevel(level))
	return slog.New(h)
}

// HandlerFor picks the handler factory for a LOGFORMAT value.
func HandlerFor(format string) func(level slog.Level) slog.Handler {
	if strings.EqualFold(format, "text") {
		return NewTextHandler
	}
	return NewCloudRunHandler
}

// ---- Helpers ----
func getSlogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
