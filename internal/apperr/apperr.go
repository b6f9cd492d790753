package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can branch on it instead of
// matching message strings.
type Kind int

const (
	Internal Kind = iota
	NotFound
	AlreadyExists
	AlreadyVerified
	InvalidCode
	CodeExpired
	TooSoon
	InvalidCredential
	Unauthenticated
	Unauthorized
	Validation
	Unverified
	Inactive
	DeliveryFailed
)

// Error carries a kind plus a human-readable message. The message is what
// ends up in the response envelope, so keep it user-facing.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or Internal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
