// Package log provides the structured logging interface used across the predictor.
//
// The interface is slog-compatible so the backend can be swapped, while the
// default implementation writes through zerolog. Attribute keys live in
// attributes.go so that the server, the CLI and the inference path emit the
// same field names.
//
// Example usage:
//
//	logger := log.New(log.Options{Level: log.LevelInfo}).With(
//	    log.ComponentKey, "server",
//	)
//	logger.Info("prediction served",
//	    log.OperationKey, log.OperationPredict,
//	    log.PredictionKey, 50,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are passed as alternating key/value pairs. Values implementing
// error are rendered with their message, stack trace and, when available,
// their structured zerolog representation.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	// The standardized feature vector is logged at this level.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	//
	// Example:
	//   logger.Error("failed to load artifacts",
	//       log.ErrAttrKey, err,
	//       log.ErrorCodeKey, log.ErrorModelLoad,
	//   )
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	// Use it to skip building expensive fields that would be discarded.
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
