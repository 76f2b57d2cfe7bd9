package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the store. Message carries whatever
// the body's "error" or "detail" field said, falling back to "HTTP <status>".
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError builds the error for a failed response, synthesizing the
// message from the status code when the body had nothing usable.
func NewAPIError(statusCode int, message string) *APIError {
	if message == "" {
		message = fmt.Sprintf("HTTP %d", statusCode)
	}
	return &APIError{StatusCode: statusCode, Message: message}
}

// NetworkError means the store could not be reached at all, as opposed to
// the store answering with a failure status.
type NetworkError struct {
	BaseURL string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: unable to connect to the backend server at %s", e.BaseURL)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is an APIError carrying 401, the signal
// that the bearer token was rejected.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
