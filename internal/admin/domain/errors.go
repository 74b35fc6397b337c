package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrConflict      = errors.New("conflict")
	ErrUpstream      = errors.New("upstream failure")
	ErrNotConfigured = errors.New("not configured")
)

// Error carries a caller-safe message alongside its category. errors.Is
// matches both the category and the wrapped cause.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

func Validation(format string, args ...any) error {
	return newError(ErrValidation, nil, format, args...)
}

func NotFound(format string, args ...any) error {
	return newError(ErrNotFound, nil, format, args...)
}

func Unauthorized(format string, args ...any) error {
	return newError(ErrUnauthorized, nil, format, args...)
}

func Conflict(format string, args ...any) error {
	return newError(ErrConflict, nil, format, args...)
}

func NotConfigured(format string, args ...any) error {
	return newError(ErrNotConfigured, nil, format, args...)
}

// Upstream wraps a failure of the vector database. The message is the
// upstream's own text.
func Upstream(cause error) error {
	return newError(ErrUpstream, cause, "%s", cause.Error())
}

// Message returns the caller-safe text of err, or "" if err is not a
// domain error.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Msg
	}
	return ""
}
