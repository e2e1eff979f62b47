// Package ragerrors provides sentinel and custom error types for the application.
package ragerrors

// ErrNotFound represents a "not found" error.
// Use when a requested template or resource doesn't exist.
var ErrNotFound = &NotFoundError{}

// NotFoundError is a sentinel error for resources that are not found.
// A catalog lookup miss after a successful match indicates the matcher and
// catalog are desynchronized (stale index); treat as fatal to that request.
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new NotFoundError with a custom message.
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.Resource != "" {
		return e.Resource + " not found"
	}

	return "resource not found"
}

// Is implements the error interface for error comparison.
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)

	return ok
}

// ErrExecution is the sentinel for query execution failures.
var ErrExecution = &ExecutionError{}

// ExecutionError is returned when the graph store rejects a query (malformed
// syntax, unknown labels) or is unreachable. Carries the backend's message so
// the router can surface it to the caller. Never retried automatically.
type ExecutionError struct {
	Query   string
	Message string
}

// NewExecutionError creates an ExecutionError for the given query text.
func NewExecutionError(query, message string) *ExecutionError {
	return &ExecutionError{Query: query, Message: message}
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Message != "" {
		return "query execution failed: " + e.Message
	}

	return "query execution failed"
}

// Is implements the error interface for error comparison.
func (e *ExecutionError) Is(target error) bool {
	_, ok := target.(*ExecutionError)

	return ok
}

// ErrGeneration is the sentinel for fallback query generation failures.
var ErrGeneration = &GenerationError{}

// GenerationError is returned when the generation capability fails or returns
// an unusable response.
type GenerationError struct {
	Message string
}

// NewGenerationError creates a GenerationError with a custom message.
func NewGenerationError(message string) *GenerationError {
	return &GenerationError{Message: message}
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	if e.Message != "" {
		return "query generation failed: " + e.Message
	}

	return "query generation failed"
}

// Is implements the error interface for error comparison.
func (e *GenerationError) Is(target error) bool {
	_, ok := target.(*GenerationError)

	return ok
}
