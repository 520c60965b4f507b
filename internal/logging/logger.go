package logging

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog with a small surface used across the project.
type Logger struct {
	sl *slog.Logger
}

// NewLogger creates a logger. Development mode uses a human-readable text
// handler at debug level; production uses JSON at info level.
func NewLogger(isDevelopment bool) *Logger {
	var handler slog.Handler
	if isDevelopment {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	return &Logger{sl: slog.New(handler)}
}

// WithFields returns a child logger that always includes the given fields
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{sl: l.sl.With(args...)}
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, args ...any) {
	l.sl.Debug(msg, args...)
}

// Info logs an informational message with key-value pairs
func (l *Logger) Info(msg string, args ...any) {
	l.sl.Info(msg, args...)
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, args ...any) {
	l.sl.Warn(msg, args...)
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, args ...any) {
	l.sl.Error(msg, args...)
}

// Log logs a message at the given level with key-value pairs
func (l *Logger) Log(ctx context.Context, level slog.Level, msg string, args ...any) {
	l.sl.Log(ctx, level, msg, args...)
}
