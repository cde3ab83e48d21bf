package api

import (
	"errors"
	"fmt"
)

// ServerError is a non-2xx response from the activities server. Detail
// carries the server-supplied message verbatim so it can be surfaced to
// the user unchanged.
type ServerError struct {
	StatusCode int
	Detail     string
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server rejected request (%d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("server rejected request (%d)", e.StatusCode)
}

// AsServerError unwraps a ServerError if the error chain contains one.
// A false result means the request never completed (network failure) or
// the error is unrelated to the server.
func AsServerError(err error) (*ServerError, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
