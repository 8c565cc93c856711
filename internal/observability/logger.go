// Package observability builds the service logger and Prometheus metrics.
package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns a structured logger writing to stderr. Format is "json"
// or "text"; unknown levels fall back to info.
func NewLogger(level, format string) *slog.Logger {
	return NewLoggerTo(os.Stderr, level, format)
}

// NewLoggerTo is NewLogger with an explicit destination.
func NewLoggerTo(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
