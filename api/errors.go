package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingID is returned when a product operation is called without an id.
var ErrMissingID = errors.New("product id is required")

// RequestFailedError reports a non-2xx response from the backend.
type RequestFailedError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("API request failed with status %d (%s %s)", e.StatusCode, e.Method, e.URL)
}

// NotFound reports whether the backend answered 404.
func (e *RequestFailedError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// TransportError wraps network and decode failures.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusCode extracts the HTTP status from err, or 0 when err is not a
// RequestFailedError.
func StatusCode(err error) int {
	var reqErr *RequestFailedError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}
