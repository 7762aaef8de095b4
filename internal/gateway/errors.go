package gateway

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a ledger object does not exist.
var ErrNotFound = errors.New("not found")

// StatusError is a non-2xx response from a remote API.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: got status code: %d (%s)", e.Method, e.URL, e.Code, e.Body)
}

// Retryable reports whether the request may succeed when repeated.
func (e *StatusError) Retryable() bool {
	return e.Code == 429 || e.Code >= 500
}
