package domain

import (
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates a configuration error detected at startup
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDuplicateTool indicates two tools were registered under the same name
	ErrDuplicateTool = errors.New("duplicate tool name")

	// ErrUnknownTool indicates the model asked for a tool that is not registered
	ErrUnknownTool = errors.New("unknown tool")

	// ErrMalformedOutput indicates a model or backend response could not be interpreted
	ErrMalformedOutput = errors.New("malformed output")

	// ErrServiceUnavailable indicates an external service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrTimeout indicates an external call exceeded its deadline
	ErrTimeout = errors.New("timeout")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")
)

// IsTransient reports whether err is a network-level failure of an external call.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrServiceUnavailable)
}

// StatusError is a non-2xx response from an HTTP collaborator.
// It unwraps to ErrServiceUnavailable for 5xx statuses and ErrInvalidInput otherwise.
type StatusError struct {
	Service    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	if e.StatusCode >= 500 {
		return ErrServiceUnavailable
	}
	return ErrInvalidInput
}
