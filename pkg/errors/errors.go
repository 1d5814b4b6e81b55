// Package errors provides typed errors for repochunk
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// ErrConfig indicates a configuration loading error
	ErrConfig ErrorType = iota
	// ErrValidation indicates an invalid configuration value
	ErrValidation
	// ErrIO indicates a read or write failure on the file system or output stream
	ErrIO
	// ErrTraversal indicates a failure while walking an input directory
	ErrTraversal
	// ErrHistory indicates the version history could not be queried
	ErrHistory
)

// Error is the base error type for all repochunk errors
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", errorTypeString(e.Type), e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", errorTypeString(e.Type), e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error
func New(errType ErrorType, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	e.Context[key] = value
	return e
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	var rcErr *Error
	if err == nil {
		return false
	}
	if errors.As(err, &rcErr) {
		return rcErr.Type == errType
	}
	return false
}

// IsFatal returns true if the error must abort the run.
// Configuration and history problems degrade instead of aborting.
func IsFatal(err error) bool {
	var rcErr *Error
	if !errors.As(err, &rcErr) {
		return err != nil
	}

	switch rcErr.Type {
	case ErrIO, ErrTraversal:
		return true
	case ErrValidation, ErrHistory:
		return false
	default:
		return true
	}
}

func errorTypeString(et ErrorType) string {
	switch et {
	case ErrConfig:
		return "CONFIG"
	case ErrValidation:
		return "VALIDATION"
	case ErrIO:
		return "IO"
	case ErrTraversal:
		return "TRAVERSAL"
	case ErrHistory:
		return "HISTORY"
	default:
		return "UNKNOWN"
	}
}

// Convenience functions for common errors

// ConfigError creates a configuration error
func ConfigError(message string, cause error) *Error {
	return New(ErrConfig, message, cause)
}

// ValidationError creates a validation error
func ValidationError(message string, cause error) *Error {
	return New(ErrValidation, message, cause)
}

// IOError creates an I/O error
func IOError(message string, cause error) *Error {
	return New(ErrIO, message, cause)
}

// TraversalError creates a directory traversal error
func TraversalError(message string, cause error) *Error {
	return New(ErrTraversal, message, cause)
}

// HistoryError creates a version history error
func HistoryError(message string, cause error) *Error {
	return New(ErrHistory, message, cause)
}
