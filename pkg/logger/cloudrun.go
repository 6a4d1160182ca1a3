package logger

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// CloudRunHandler implements slog.Handler, emitting one JSON object per record
// in the shape Cloud Logging parses from container stdout.
type CloudRunHandler struct {
	level slog.Level
	mu    *sync.Mutex
	out   io.Writer
	attrs []slog.Attr
}

func NewCloudRunHandler(level slog.Level) slog.Handler {
	return NewCloudRunHandlerWriter(level, os.Stdout)
}

func NewCloudRunHandlerWriter(level slog.Level, out io.Writer) *CloudRunHandler {
	return &CloudRunHandler{level: level, mu: &sync.Mutex{}, out: out}
}

func (h *CloudRunHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level
}

func (h *CloudRunHandler) Handle(_ context.Context, r slog.Record) error {
	event := map[string]any{
		"severity": mapSeverity(r.Level),
		"message":  r.Message,
		"time":     r.Time.Format(time.RFC3339Nano),
	}

	if len(h.attrs) > 0 || r.NumAttrs() > 0 {
		data := make(map[string]any, len(h.attrs)+r.NumAttrs())
		for _, a := range h.attrs {
			data[a.Key] = attrValue(a.Value)
		}
		r.Attrs(func(a slog.Attr) bool {
			data[a.Key] = attrValue(a.Value)
			return true
		})
		event["data"] = data
	}

	b, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.out.Write(append(b, '\n'))
	return err
}

func (h *CloudRunHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := *h
	newH.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &newH
}

func (h *CloudRunHandler) WithGroup(_ string) slog.Handler {
	// CloudRun format doesn’t support groups; ignore
	return h
}

// ---- Helpers ----

func mapSeverity(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARNING"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// errors marshal to {} through encoding/json, so flatten them to their message.
func attrValue(v slog.Value) any {
	v = v.Resolve()
	if err, ok := v.Any().(error); ok {
		return err.Error()
	}
	return v.Any()
}
