package services

import (
	"errors"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// Error is what AuthService hands back to transports: Kind is one of the
// common sentinels and decides the status, Message is safe to show the caller.
// Cause, when set, is a more specific sentinel such as common.ErrTokenRevoked.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func (e *Error) wrap(cause error) *Error {
	e.Cause = cause
	return e
}

func validationError(msg string) *Error {
	return &Error{Kind: common.ErrorValidation, Message: msg}
}

func conflictError(msg string) *Error {
	return &Error{Kind: common.ErrorAlreadyExists, Message: msg}
}

func unauthorizedError(msg string) *Error {
	return &Error{Kind: common.ErrorUnauthorized, Message: msg}
}

func notFoundError(msg string) *Error {
	return &Error{Kind: common.ErrorNotFound, Message: msg}
}

func internalError(msg string) *Error {
	return &Error{Kind: common.ErrorInternal, Message: msg}
}

// AsError extracts a *Error from err. Anything else is reported as an
// internal failure with a generic message.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return internalError(msgInternal)
}
