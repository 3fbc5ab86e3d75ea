// Package apperr defines the error taxonomy shared by the venue services.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers and transport mapping.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindConflict      Kind = "conflict"
	KindInvalidState  Kind = "invalid_state"
	KindNotFound      Kind = "not_found"
	KindConfiguration Kind = "configuration"
	KindUnauthorized  Kind = "unauthorized"
	KindForbidden     Kind = "forbidden"
)

// Error is a tagged error carrying a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the package sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrConflict      = &Error{Kind: KindConflict}
	ErrInvalidState  = &Error{Kind: KindInvalidState}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrUnauthorized  = &Error{Kind: KindUnauthorized}
	ErrForbidden     = &Error{Kind: KindForbidden}
)

func newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation reports malformed input.
func Validation(format string, args ...any) error { return newf(KindValidation, format, args...) }

// Conflict reports a uniqueness violation such as a second active session on one table.
func Conflict(format string, args ...any) error { return newf(KindConflict, format, args...) }

// InvalidState reports an operation not allowed in the record's current state.
func InvalidState(format string, args ...any) error { return newf(KindInvalidState, format, args...) }

// NotFound reports an unknown id or client.
func NotFound(format string, args ...any) error { return newf(KindNotFound, format, args...) }

// Configuration reports an unusable configuration value, e.g. a negative tariff rate.
func Configuration(format string, args ...any) error {
	return newf(KindConfiguration, format, args...)
}

// Unauthorized reports missing or invalid credentials.
func Unauthorized(format string, args ...any) error { return newf(KindUnauthorized, format, args...) }

// Forbidden reports a principal lacking a capability.
func Forbidden(format string, args ...any) error { return newf(KindForbidden, format, args...) }

// Wrap tags err with kind, keeping it reachable through errors.Unwrap.
func Wrap(kind Kind, err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Message returns the public message of err. Untagged errors yield a generic text so storage
// details never leak to clients.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		return string(e.Kind)
	}
	return "internal error"
}

// HTTPStatus maps an error to the status code handlers should answer with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict, KindInvalidState:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindConfiguration:
		return http.StatusUnprocessableEntity
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
