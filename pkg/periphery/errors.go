package periphery

import (
	"errors"
	"fmt"
)

// Error represents an error returned by a periphery agent
type Error struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id,omitempty"`
	Body       string `json:"body,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("periphery error (status %d, request %s): %s", e.StatusCode, e.RequestID, e.Message)
	}
	return fmt.Sprintf("periphery error (status %d): %s", e.StatusCode, e.Message)
}

// IsRetryable reports whether the agent failed on its side, so the request
// may be sent again
func (e *Error) IsRetryable() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsAuthError returns true if the agent rejected the passkey
func (e *Error) IsAuthError() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// AsError extracts a periphery error from an error chain
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
