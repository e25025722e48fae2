// Package errors provides error handling utilities for the predictor.
//
// This file contains panic recovery utilities. gonum panics on shape
// mismatches instead of returning errors, so every matrix operation that
// touches caller-provided data runs behind Recover.

package errors

import (
	"fmt"
	"runtime/debug"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// PanicError represents an error that was created from a recovered panic.
type PanicError struct {
	// PanicValue is the original value passed to panic()
	PanicValue interface{}

	// StackTrace contains the stack trace at the time of panic
	StackTrace string

	// Operation identifies where the panic was recovered
	Operation string
}

// Error implements the error interface for PanicError.
func (e *PanicError) Error() string {
	return fmt.Sprintf("biketrip: panic in %s: %v", e.Operation, e.PanicValue)
}

// MarshalZerologObject adds the panic value and operation to a log event.
// The captured stack goes out through the stacktrace field instead.
func (e *PanicError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Operation).
		Str("panic", fmt.Sprint(e.PanicValue)).
		Str("type", "PanicError")
}

// String provides detailed information including stack trace.
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s",
		e.Operation, e.PanicValue, e.StackTrace)
}

// NewPanicError creates a new PanicError with the given operation context and panic value.
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover is used with defer to convert a panic into an error.
//
// Usage:
//
//	func (m *MLP) Forward(x []float64) (out []float64, err error) {
//	    defer errors.Recover(&err, "MLP.Forward")
//	    ...
//	}
//
// If the function already has an error, the panic message wraps it.
func Recover(err *error, operation string) {
	r := recover()
	if r == nil {
		return
	}
	if *err != nil {
		*err = errors.Wrapf(*err, "panic in %s: %v", operation, r)
		return
	}
	*err = errors.WithStack(NewPanicError(operation, r))
}

// SafeExecute executes fn and converts any panic into a PanicError.
// Used around third-party drawing code that reports bad input by panicking.
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
