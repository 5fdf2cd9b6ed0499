// Package errors provides structured error types for xbar.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
//   - INVALID_ARGUMENT, OUT_OF_RANGE: bad or too large terminal counts
//   - INVALID_INPUT, INVALID_FORMAT: undecodable plans, unknown encodings
//   - INVARIANT_VIOLATION: a generated plan failed verification
//   - CANCELLED, RATE_LIMITED, NOT_FOUND: request lifecycle in the HTTP API
//
// Context errors need no wrapping: [GetCode] reports them as CANCELLED.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidArgument, "terminal count must be non-negative, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidArgument) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "read config %s", path)
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidArgument Code = "INVALID_ARGUMENT"
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeOutOfRange      Code = "OUT_OF_RANGE"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Request lifecycle errors
	ErrCodeCancelled   Code = "CANCELLED"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Internal errors
	ErrCodeInvariant   Code = "INVARIANT_VIOLATION"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err carries the given code (see [GetCode]).
func Is(err error, code Code) bool {
	return code != "" && GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain.
// Context cancellation and deadline errors without an *Error report
// [ErrCodeCancelled]; any other error reports "".
func GetCode(err error) Code {
	var e *Error
	switch {
	case errors.As(err, &e):
		return e.Code
	case IsCancelled(err):
		return ErrCodeCancelled
	}
	return ""
}

// IsCancelled reports whether err stems from a cancelled or expired context.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// UserMessage returns the message of the outermost *Error without its code
// prefix. Cancellation reads "operation cancelled"; other errors are
// returned as-is.
func UserMessage(err error) string {
	var e *Error
	switch {
	case errors.As(err, &e):
		return e.Message
	case IsCancelled(err):
		return "operation cancelled"
	}
	return err.Error()
}
