package modelclient

import (
	"errors"
	"strings"
)

// ClientError is the base error for all model client failures.
type ClientError struct {
	Message string
	Cause   error
}

func (e *ClientError) Error() string { return e.Message }
func (e *ClientError) Unwrap() error { return e.Cause }

// AuthenticationError indicates a rejected or missing API key. Never retried.
type AuthenticationError struct{ ClientError }

// RateLimitError indicates the provider throttled the request.
type RateLimitError struct{ ClientError }

// ContextLengthError indicates the conversation exceeded the model's context
// window. Never retried; the caller must shrink the history.
type ContextLengthError struct{ ClientError }

// ServerError indicates a provider-side failure (5xx).
type ServerError struct{ ClientError }

// TimeoutError indicates the request timed out in transit.
type TimeoutError struct{ ClientError }

// IsRetryable reports whether a second attempt at the same request could
// plausibly succeed.
func IsRetryable(err error) bool {
	var rateLimit *RateLimitError
	var server *ServerError
	var timeout *TimeoutError
	return errors.As(err, &rateLimit) || errors.As(err, &server) || errors.As(err, &timeout)
}

// classifyError maps a raw provider error onto the typed hierarchy. gollm
// surfaces provider failures as opaque strings, so classification is by
// message content.
func classifyError(provider string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	base := ClientError{Message: provider + ": " + msg, Cause: err}

	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "401") || strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "invalid api key") || strings.Contains(lower, "invalid key"):
		return &AuthenticationError{base}
	case strings.Contains(lower, "429") || strings.Contains(lower, "rate limit"):
		return &RateLimitError{base}
	case strings.Contains(lower, "context length") || strings.Contains(lower, "too many tokens") ||
		strings.Contains(lower, "maximum context"):
		return &ContextLengthError{base}
	case strings.Contains(lower, "500") || strings.Contains(lower, "502") ||
		strings.Contains(lower, "503") || strings.Contains(lower, "internal server") ||
		strings.Contains(lower, "overloaded"):
		return &ServerError{base}
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded"):
		return &TimeoutError{base}
	default:
		return &base
	}
}
