// Package logging defines the structured logger shared by every repometa
// package, with a log/slog implementation and a no-op logger for tests and
// library defaults.
package logging

import (
	"context"
	"log/slog"
	"strings"

	platformerrors "github.com/jmgilman/go/errors"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key-value pairs:
//
//	log.Info(ctx, "command submitted", "repository", id, "operation", op)
type Logger interface {
	// Debug logs diagnostic detail such as cache hits and misses.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a non-fatal condition, e.g. a failed cache write.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs a failure.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value pairs.
	With(args ...any) Logger
}

// ParseLevel converts a level name (debug, info, warn, error) to a slog.Level.
// Matching is case-insensitive; "warning" is accepted as an alias of "warn".
// Unknown names fail with INVALID_CONFIGURATION.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, platformerrors.Newf(platformerrors.CodeInvalidConfig, "unknown log level %q", level)
	}
}
