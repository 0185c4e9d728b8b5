// Package apperr carries an HTTP status and a client-safe message alongside
// an underlying error, so services can decide the response code without
// importing the web framework.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a failure with a status code and a message that is safe to show
// to clients.  Err, when set, is the internal cause and is only logged.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, msg string) *Error { return &Error{Status: status, Message: msg} }

func BadRequest(msg string) *Error { return New(http.StatusBadRequest, msg) }
func NotFound(msg string) *Error   { return New(http.StatusNotFound, msg) }
func Forbidden(msg string) *Error  { return New(http.StatusForbidden, msg) }
func Conflict(msg string) *Error   { return New(http.StatusConflict, msg) }

// Internal wraps err as a 500 with a generic message.
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "error interno del servidor", Err: err}
}

// As extracts an *Error from err.  Anything else is reported as an internal
// error.
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}
