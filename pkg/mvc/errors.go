package mvc

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissing is wrapped by every error about a required value that the
// request does not carry
var ErrMissing = errors.New("missing value")

// Error is an error with an HTTP status. Adapters render it as
// {"error": Message, "details": Details} with Status.
type Error struct {
	Status  StatusCode `json:"-"`
	Message string     `json:"error"`
	Details any        `json:"details,omitempty"`
	Err     error      `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an error with a status and message
func NewError(status StatusCode, message string) *Error {
	return &Error{Status: status, Message: message}
}

// WithDetails attaches details rendered next to the message
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// ErrBadRequest creates a 400 Bad Request error
func ErrBadRequest(message string, cause error) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message, Err: cause}
}

// ErrNotFound creates a 404 Not Found error
func ErrNotFound(message string) *Error {
	return NewError(http.StatusNotFound, message)
}

// ErrUnsupportedMediaType creates a 415 Unsupported Media Type error
func ErrUnsupportedMediaType(mediaType string) *Error {
	return NewError(http.StatusUnsupportedMediaType, "unsupported media type "+mediaType)
}

// ErrInternal creates a 500 Internal Server Error wrapping cause
func ErrInternal(message string, cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message, Err: cause}
}

// StatusOf returns the status an error is rendered with, 500 for errors
// that carry none
func StatusOf(err error) StatusCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// errorBody is what adapters render for err. Errors without a status do
// not leak their message.
func errorBody(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Status: http.StatusInternalServerError, Message: http.StatusText(http.StatusInternalServerError)}
}
