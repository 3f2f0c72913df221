// Package httperr carries the error taxonomy shared by every request handler:
// each Error maps to exactly one HTTP status, and handlers translate internal
// failures into one of these kinds at the boundary.
package httperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Unauthenticated Kind = iota
	Forbidden
	NotFound
	InvalidInput
	MethodNotAllowed
	Upstream
	Internal
)

type Error struct {
	Kind    Kind
	Message string
	// UpstreamStatus is propagated as-is for Upstream errors when the
	// collaborator reported an HTTP status.
	UpstreamStatus int
	Err            error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Status() int {
	switch e.Kind {
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case InvalidInput:
		return http.StatusBadRequest
	case MethodNotAllowed:
		return http.StatusMethodNotAllowed
	case Upstream:
		if e.UpstreamStatus > 0 {
			return e.UpstreamStatus
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// FromError normalizes an arbitrary error into a taxonomy error, defaulting
// to Internal for anything unrecognized.
func FromError(err error) *Error {
	var he *Error
	if errors.As(err, &he) {
		return he
	}
	return &Error{Kind: Internal, Message: "Internal server error", Err: err}
}
