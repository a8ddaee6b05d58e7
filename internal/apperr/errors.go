// Package apperr carries the error taxonomy shared by services and controllers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error and decides the HTTP status it is reported with.
type Kind int

const (
	Internal Kind = iota
	InvalidInput
	Unauthorized
	Forbidden
	NotFound
	Conflict
)

// DefaultInternalMessage is shown to clients for any unexpected failure.
const DefaultInternalMessage = "Internal server error."

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid input"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not found"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// StatusCode maps the kind to its HTTP status.
func (k Kind) StatusCode() int {
	switch k {
	case InvalidInput:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified, client-presentable error. Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func NewInvalidInput(msg string) *Error { return newError(InvalidInput, msg) }
func NewUnauthorized(msg string) *Error { return newError(Unauthorized, msg) }
func NewForbidden(msg string) *Error    { return newError(Forbidden, msg) }
func NewNotFound(msg string) *Error     { return newError(NotFound, msg) }
func NewConflict(msg string) *Error     { return newError(Conflict, msg) }

// NewInternal wraps an unexpected failure. The cause is never shown to clients.
func NewInternal(err error) *Error {
	return &Error{Kind: Internal, Message: DefaultInternalMessage, Err: err}
}

// KindOf returns the kind of the first *Error in the chain, or Internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// StatusCode returns the HTTP status for err.
func StatusCode(err error) int {
	return KindOf(err).StatusCode()
}

// Message returns the client-facing message for err. Unclassified errors get a generic message.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return DefaultInternalMessage
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
