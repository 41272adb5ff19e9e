package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a failure for the router boundary.
type Code int

const (
	CodeNotFound Code = iota + 1
	CodeConflict
	CodeUnauthorized
	CodeInfrastructure
)

// Error is a typed application error. Every failure path in the service
// returns one of these (possibly wrapped) instead of a nil/false sentinel,
// so callers can always distinguish "no effect" from "succeeded".
type Error struct {
	Code    Code
	Message string
	Err     error // optional underlying cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound reports that a named resource with the given identifier does not exist.
func NotFound(resource, id string) *Error {
	if id == "" {
		return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s not found", resource)}
	}
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %q not found", resource, id)}
}

// Conflict reports a violated uniqueness invariant.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized reports a missing or invalid actor.
func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

// Infrastructure wraps a store or downstream failure that is not user-actionable.
func Infrastructure(op string, err error) *Error {
	return &Error{Code: CodeInfrastructure, Message: op + " failed", Err: err}
}

func is(err error, c Code) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == c
}

func IsNotFound(err error) bool       { return is(err, CodeNotFound) }
func IsConflict(err error) bool       { return is(err, CodeConflict) }
func IsUnauthorized(err error) bool   { return is(err, CodeUnauthorized) }
func IsInfrastructure(err error) bool { return is(err, CodeInfrastructure) }

// Status maps an error to the wire status code. Unknown errors map to 500.
func Status(err error) int {
	var ae *Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	switch ae.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
