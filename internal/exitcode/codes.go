// Package exitcode maps rip outcomes to process exit codes so scripts can
// tell a cancelled run from a failed kill or a broken setup.
//
//   - 0: success, or the user cancelled
//   - 1: at least one signal could not be delivered
//   - 2: invalid flags or configuration
//   - 3: setup failed before the picker could be shown
//
// Extract codes from errors (works with wrapped errors):
//
//	code := exitcode.Code(err) // ErrSignalFailed for non-coded errors
package exitcode

import (
	"errors"
	"fmt"
)

const (
	Success         = 0
	ErrSignalFailed = 1 // One or more signals failed
	ErrUsage        = 2 // Invalid arguments or config
	ErrSetup        = 3 // No terminal, no initial snapshot
)

// Error wraps an error with a specific exit code.
type Error struct {
	Code    int
	Message string
	Cause   error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new coded error.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new coded error with printf-style formatting.
func Newf(code int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with a code and message.
func Wrap(code int, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Code extracts the exit code from an error.
// Returns ErrSignalFailed (1) if the error doesn't have a code.
func Code(err error) int {
	if err == nil {
		return Success
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ErrSignalFailed
}

// Is checks if an error has a specific exit code.
func Is(err error, code int) bool {
	return Code(err) == code
}

// Usage returns a usage error.
func Usage(cause error) *Error {
	return Wrap(ErrUsage, "invalid usage", cause)
}

// Setup returns a fatal setup error.
func Setup(message string, cause error) *Error {
	return Wrap(ErrSetup, message, cause)
}
