// Package log provides a structured logging interface for pipeline runs.
//
// The interface is slog-compatible so that back ends can be swapped: the
// package ships a zerolog implementation (NewZerologLogger), a slog JSON
// setup for Cloud Logging (SetupLogger) and an in-memory TestLogger.
//
// Example usage:
//
//	logger := log.GetLogger().With(
//	    log.RunIDKey, runID,
//	    log.ComponentKey, "pipeline",
//	)
//	logger.Info("data source merged",
//	    log.SourceIDKey, "odds",
//	    log.SamplesKey, 1000,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are alternating key/value pairs. An error passed as a value (or as
// the first field of Error) is rendered with its message.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// If the first field is an error it is attached under the "error" key.
	//
	//	logger.Error("pipeline run failed", err, log.StageKey, "augment")
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
