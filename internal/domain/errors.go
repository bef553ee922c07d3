package domain

import (
	"errors"
	"fmt"
)

// NotFoundError reports a missing resource. ID is optional; when set the
// message names it ("Beer with ID 7 not found").
type NotFoundError struct {
	Resource string
	ID       int64
	Msg      string
	Err      error
}

func (e NotFoundError) Error() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Resource != "" && e.ID != 0:
		return fmt.Sprintf("%s with id %d not found", e.Resource, e.ID)
	case e.Resource != "":
		return fmt.Sprintf("%s not found", e.Resource)
	default:
		return "not found"
	}
}

func (e NotFoundError) Unwrap() error { return e.Err }

// ValidationError is the bad-request kind: malformed input, duplicate names,
// invalid paging.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// ForbiddenError is returned when the caller is authenticated but may not touch
// the resource. Reason is for audit logs; the message is what callers see.
type ForbiddenError struct {
	Reason string
	Msg    string
}

func (e ForbiddenError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "access denied"
}

type UnauthenticatedError struct {
	Msg string
}

func (e UnauthenticatedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "Authentication required"
}

// UnavailableError wraps infrastructure failures. Err is kept for logs only,
// it never becomes part of the message.
type UnavailableError struct {
	Msg string
	Err error
}

func (e UnavailableError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "storage unavailable"
}

func (e UnavailableError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}

func IsUnauthenticated(err error) bool {
	var target UnauthenticatedError
	return errors.As(err, &target)
}

func IsUnavailable(err error) bool {
	var target UnavailableError
	return errors.As(err, &target)
}

// Unavailable wraps err unless it already carries a domain kind.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) || IsValidation(err) || IsConflict(err) ||
		IsForbidden(err) || IsUnauthenticated(err) || IsUnavailable(err) {
		return err
	}
	return UnavailableError{Err: err}
}
