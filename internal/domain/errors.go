package domain

import "errors"

// Kind classifies failures into the codes callers see
type Kind string

// Error kinds
const (
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindBadInput        Kind = "BAD_USER_INPUT"
	KindInternal        Kind = "INTERNAL_SERVER_ERROR"
)

// InternalMessage is the only text an Internal failure ever exposes
const InternalMessage = "An internal error occurred. Please try again later."

// Error is a typed failure carrying a user-facing message
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying cause, never shown to callers
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind so errors.Is(err, ErrNotFound) works for any NotFound
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Message == ""
}

// Kind sentinels for errors.Is
var (
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrBadInput        = &Error{Kind: KindBadInput}
	ErrInternal        = &Error{Kind: KindInternal}
)

func Unauthenticated(msg string) *Error { return &Error{Kind: KindUnauthenticated, Message: msg} }
func NotFound(msg string) *Error        { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error        { return &Error{Kind: KindConflict, Message: msg} }
func BadInput(msg string) *Error        { return &Error{Kind: KindBadInput, Message: msg} }

// Internal wraps an unexpected failure
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: InternalMessage, Err: err}
}

// KindOf returns the kind of err, treating anything untyped as Internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage returns the text safe to send to a caller
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal && e.Message != "" {
		return e.Message
	}
	return InternalMessage
}
