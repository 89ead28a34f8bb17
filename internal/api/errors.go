package api

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRequired indicates a call was attempted without a bearer token.
	// No request is sent in that case.
	ErrAuthRequired = errors.New("authentication required")
	// ErrAborted indicates the request was cancelled or timed out before a
	// response arrived.
	ErrAborted = errors.New("request aborted")
)

// Error is a non-2xx backend response normalized into a single message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsStatus reports whether err is an API error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == status
	}
	return false
}

// statusFallback builds the last-resort message for an empty error body.
func statusFallback(status int, statusText string) string {
	return fmt.Sprintf("HTTP %d: %s", status, statusText)
}
