// Package errors provides structured error types for modtower.
//
// Every failure the tool can surface carries a machine-readable [Code] so the
// CLI, tests and callers embedding the engine can tell a malformed document
// from a rule that cannot be evaluated:
//
//   - CONFIG_*: the tower document is malformed or semantically invalid
//   - DIVISION_BY_ZERO, INVALID_EXPRESSION: a value generator failed
//   - MISSING_LAYER_COUNT: the G-code file has no layer count marker
//   - FILE_NOT_FOUND, IO: file access failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfigInvalid, "rule %d: %s", i, msg)
//	if errors.Is(err, errors.ErrCodeConfigInvalid) {
//	    // Handle invalid rule
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "failed to read %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors
	ErrCodeConfigValidation Code = "CONFIG_VALIDATION"
	ErrCodeConfigInvalid    Code = "CONFIG_INVALID"

	// Value generator errors
	ErrCodeDivisionByZero    Code = "DIVISION_BY_ZERO"
	ErrCodeInvalidExpression Code = "INVALID_EXPRESSION"

	// Input errors
	ErrCodeMissingLayerCount Code = "MISSING_LAYER_COUNT"
	ErrCodeInvalidMarker     Code = "INVALID_MARKER"
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"
	ErrCodeIO                Code = "IO"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// Is reports whether err has the given error code.
// It walks the whole chain, so a generator error wrapped with rule context
// still reports the generator's code.
func Is(err error, code Code) bool {
	for err != nil {
		c, cause, ok := firstCoded(err)
		if !ok {
			return false
		}
		if c == code {
			return true
		}
		err = cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the chain holds no coded error.
func GetCode(err error) Code {
	c, _, _ := firstCoded(err)
	return c
}

// UserMessage returns a user-friendly message for the error.
// Code prefixes are stripped throughout the chain while context added with
// fmt.Errorf("...: %w") is kept.
func UserMessage(err error) string {
	switch e := err.(type) {
	case *ValidationError:
		return e.Describe()
	case *Error:
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	if inner := errors.Unwrap(err); inner != nil {
		return strings.Replace(err.Error(), inner.Error(), UserMessage(inner), 1)
	}
	return err.Error()
}

// firstCoded finds the first coded error in err's chain and returns its code
// together with the error it wraps.
func firstCoded(err error) (Code, error, bool) {
	for ; err != nil; err = errors.Unwrap(err) {
		switch e := err.(type) {
		case *Error:
			return e.Code, e.Cause, true
		case *ValidationError:
			return ErrCodeConfigValidation, nil, true
		}
	}
	return "", nil, false
}
