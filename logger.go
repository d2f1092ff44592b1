package corekit

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with corekit-specific field helpers.
//
// Containers accept a Logger as an optional collaborator. A nil *Logger is
// valid and discards everything, so callers never need a guard.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithContainer tags the logger with the kind of container emitting records.
func (l *Logger) WithContainer(kind string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{Logger: l.Logger.With("container", kind)}
}

// WithChannel tags the logger with a log channel name.
func (l *Logger) WithChannel(name string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{Logger: l.Logger.With("channel", name)}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{Logger: l.Logger.With("count", count)}
}

// Enabled reports whether records at level would be emitted.
func (l *Logger) Enabled(level slog.Level) bool {
	if l == nil || l.Logger == nil {
		return false
	}
	return l.Logger.Enabled(context.Background(), level)
}

// LogGrow logs a capacity change of a contiguous container.
func (l *Logger) LogGrow(oldCap, newCap, length int) {
	if !l.Enabled(slog.LevelDebug) {
		return
	}
	l.Debug("storage reallocated",
		"old_capacity", oldCap,
		"new_capacity", newCap,
		"length", length,
	)
}

// LogRehash logs a bucket array replacement.
func (l *Logger) LogRehash(oldBuckets, newBuckets, elements int) {
	if !l.Enabled(slog.LevelDebug) {
		return
	}
	l.Debug("rehash completed",
		"old_buckets", oldBuckets,
		"new_buckets", newBuckets,
		"elements", elements,
	)
}

// LogAllocFailure logs an allocation the allocator could not serve.
func (l *Logger) LogAllocFailure(op string, size int, err error) {
	if !l.Enabled(slog.LevelWarn) {
		return
	}
	l.Warn("allocation failed",
		"op", op,
		"size", size,
		"error", err,
	)
}
