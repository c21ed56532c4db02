package custom

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyToken is returned for a custom block with no content.
	ErrEmptyToken = errors.New("custom: empty custom element")
	// ErrHandlerNotFound is returned when no handler is registered for a type path.
	ErrHandlerNotFound = errors.New("custom: handler not found")
	// ErrNoUsableHandler is returned when the registered value is not a supported handler shape.
	ErrNoUsableHandler = errors.New("custom: no usable handler found")
	// ErrInvalidTypePath is returned when registering under a blank type path.
	ErrInvalidTypePath = errors.New("custom: type path is required")
	// ErrDuplicateHandler is returned when a type path is registered twice.
	ErrDuplicateHandler = errors.New("custom: duplicate handler")
)

// InvocationError wraps a failure raised by a handler, including recovered panics.
type InvocationError struct {
	TypePath string
	Err      error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("custom: handler %s failed: %v", e.TypePath, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }
