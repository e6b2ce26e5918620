// Package logger provides structured logging using log/slog.
// It sets up a JSON handler with a service attribute and carries
// a request ID through context.Context.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// L is the global logger. It falls back to slog's default until Init is called.
var L = slog.Default()

// ParseLevel maps a LOG_LEVEL string to a slog level, defaulting to info
func ParseLevel(levelStr string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Init initializes the global logger writing JSON to stdout.
// Call this once at application startup, after loading config.
func Init(service, levelStr string) *slog.Logger {
	return InitWithWriter(os.Stdout, service, levelStr)
}

// InitWithWriter is Init with an explicit destination
func InitWithWriter(w io.Writer, service, levelStr string) *slog.Logger {
	level, ok := ParseLevel(levelStr)

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format(time.RFC3339))
				}
			}
			return a
		},
	}

	L = slog.New(slog.NewJSONHandler(w, opts)).With(slog.String("service", service))
	slog.SetDefault(L)

	if !ok {
		L.Warn("Invalid LOG_LEVEL specified, defaulting to INFO", "configuredLevel", levelStr)
	}
	return L
}

// WithRequestID stores a request ID in the context for downstream logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID extracts the request ID from context. Returns "" if not set.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// FromContext returns the global logger annotated with the request ID, if any
func FromContext(ctx context.Context) *slog.Logger {
	if rid := RequestID(ctx); rid != "" {
		return L.With(slog.String("request_id", rid))
	}
	return L
}
