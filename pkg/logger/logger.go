// Package logger configures the process-wide slog logger. Logs always go
// to stderr: stdout belongs to command output (search results, listings),
// which stays pipeable.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type contextKey struct{}

// Setup replaces the process-wide default logger.
func Setup(level, format string) {
	slog.SetDefault(New(os.Stderr, level, format))
}

// New builds a logger writing to w. Level is parsed case-insensitively
// (debug, info, warn, error; unknown values fall back to info); format
// "json" selects the JSON handler, anything else line-oriented text.
// Split from Setup so tests can capture output.
func New(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// WithRequestID derives a request-scoped logger carrying the request id
// and stashes it in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKey{}, slog.Default().With("request_id", requestID))
}

// FromContext returns the request-scoped logger stored by WithRequestID,
// or the default logger outside a request.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
