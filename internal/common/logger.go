package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ParseLevel converts a configured level name into a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
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
	return SetupLoggerTo(os.Stderr, level, format)
}

// SetupLoggerTo configures the global logger to write to w.
func SetupLoggerTo(w io.Writer, level slog.Level, format string) error {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: level,
	}

	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "console", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, format)
	}

	slog.SetDefault(slog.New(handler))

	return nil
}

// LogError logs err at error level with msg and the key value pairs in args.
func LogError(err error, msg string, args ...any) {
	slog.Error(msg, append([]any{slog.String("error", err.Error())}, args...)...)
}

// LogFailure logs a failed backend call. Canceled calls are logged at debug
// level since the user moved on.
func LogFailure(ctx context.Context, err error, msg string, args ...any) {
	level := slog.LevelWarn
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		level = slog.LevelDebug
	}
	slog.Log(ctx, level, msg, append([]any{slog.String("error", err.Error())}, args...)...)
}
