package agentcore

import "fmt"

// CoreError is the base type for all tool execution failures. Every variant
// is resolved into a ToolResult at the executor boundary; none of them
// crosses it as a panic or a fatal error.
type CoreError struct {
	Message string
	Cause   error
}

func (e *CoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CoreError) Unwrap() error {
	return e.Cause
}

// ValidationError: malformed or missing arguments, caught before any I/O.
type ValidationError struct{ CoreError }

// NotFoundError: unknown tool name or missing target (file, text).
type NotFoundError struct{ CoreError }

// StateError: operation disallowed in the current mode; carries guidance.
type StateError struct{ CoreError }

// ExecutionError: the handler failed during actual execution.
type ExecutionError struct{ CoreError }

// CancellationError: the user declined confirmation or raised the
// cancellation signal. Not a failure; it halts remaining batch processing
// while the results collected so far are returned normally.
type CancellationError struct{ CoreError }

func validationErr(format string, args ...any) error {
	return &ValidationError{CoreError{Message: fmt.Sprintf(format, args...)}}
}

func notFoundErr(format string, args ...any) error {
	return &NotFoundError{CoreError{Message: fmt.Sprintf(format, args...)}}
}

func stateErr(format string, args ...any) error {
	return &StateError{CoreError{Message: fmt.Sprintf(format, args...)}}
}

func executionErr(cause error, format string, args ...any) error {
	return &ExecutionError{CoreError{Message: fmt.Sprintf(format, args...), Cause: cause}}
}
