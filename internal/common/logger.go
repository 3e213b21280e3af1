package common

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Fields represents structured logging fields.
type Fields map[string]any

// ParseLevel converts a configured level name into a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidConfig, level)
	}
}

// SetupLogger configures the global logger with appropriate settings.
func SetupLogger(level slog.Level, format string) error {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: level,
	}

	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "console", "":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, format)
	}

	slog.SetDefault(slog.New(handler))

	return nil
}

// LogError logs err with additional context.
func LogError(err error, msg string, fields Fields) {
	logFields(slog.LevelError, msg, fields, slog.String("error", err.Error()))
}

// LogInfo logs an info message with fields.
func LogInfo(msg string, fields Fields) {
	logFields(slog.LevelInfo, msg, fields)
}

// LogDebug logs a debug message with fields.
func LogDebug(msg string, fields Fields) {
	logFields(slog.LevelDebug, msg, fields)
}

func logFields(level slog.Level, msg string, fields Fields, extra ...slog.Attr) {
	attrs := make([]slog.Attr, 0, len(fields)+len(extra))
	attrs = append(attrs, extra...)
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	slog.LogAttrs(context.Background(), level, msg, attrs...)
}
