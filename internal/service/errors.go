package service

import (
	"errors"
	"fmt"

	"task-manager/internal/repository"
)

// Error kinds. Every *Error matches exactly one of them with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrDuplicate    = errors.New("duplicate")
	ErrIntegrity    = errors.New("integrity violation")
)

var (
	ErrInvalidCredentials = &Error{Kind: ErrUnauthorized, Message: "Invalid credentials"}
	ErrInvalidToken       = &Error{Kind: ErrUnauthorized, Message: "Invalid token"}
	ErrNoIdentity         = &Error{Kind: ErrUnauthorized, Message: "Authentication required"}
)

type Error struct {
	Kind    error
	Message string
	// Details carries field level validation output.
	Details string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Is matches the error kind, or another *Error of the same kind and message.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return t.Kind == e.Kind && t.Message == e.Message
	}
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// fromRepository converts storage errors into service errors; anything it
// does not recognise is returned as is.
func fromRepository(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return &Error{Kind: ErrNotFound, Message: what + " not found", Err: err}
	case errors.Is(err, repository.ErrDuplicate):
		return &Error{Kind: ErrDuplicate, Message: what + " already exists", Err: err}
	case errors.Is(err, repository.ErrInUse):
		return &Error{Kind: ErrIntegrity, Message: what + " is still in use", Err: err}
	}
	return err
}
