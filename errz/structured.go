// Package errz defines the structured errors returned by deepcov.
package errz

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// ErrType indicates a value of the wrong kind, such as a native function
	// where a script function is required.
	ErrType ErrorKind = iota
	// ErrValue indicates an invalid value for an operation.
	ErrValue
	// ErrLimit indicates that a configured limit was exceeded.
	ErrLimit
	// ErrFormat indicates a malformed serialized chunk.
	ErrFormat
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrType:
		return "type error"
	case ErrValue:
		return "value error"
	case ErrLimit:
		return "limit error"
	case ErrFormat:
		return "format error"
	default:
		return "error"
	}
}

// Sentinel causes. Use errors.Is to test for them.
var (
	ErrNativeFunction = errors.New("Lua function expected, got C function")
	ErrDepthExceeded  = errors.New("maximum prototype nesting depth exceeded")
	ErrBadChunk       = errors.New("invalid chunk")
)

// StructuredError carries an error kind alongside the message and an
// optional underlying cause.
type StructuredError struct {
	Message string
	Kind    ErrorKind
	Cause   error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil && e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// WithCause wraps the error with a cause.
func (e *StructuredError) WithCause(cause error) *StructuredError {
	e.Cause = cause
	return e
}

// NewStructuredError creates a new StructuredError with the given parameters.
func NewStructuredError(kind ErrorKind, message string) *StructuredError {
	return &StructuredError{
		Message: message,
		Kind:    kind,
	}
}

// NewStructuredErrorf creates a new StructuredError with a formatted message.
func NewStructuredErrorf(kind ErrorKind, format string, args ...any) *StructuredError {
	return &StructuredError{
		Message: fmt.Sprintf(format, args...),
		Kind:    kind,
	}
}

// KindOf reports the kind of the first StructuredError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}
