package archerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for boundary translation (HTTP status,
// per-item upload outcome, CLI exit message).
type Kind int

const (
	// KindInternal is an unexpected failure. The zero value, so any
	// unclassified error lands here.
	KindInternal Kind = iota
	// KindValidation is a malformed or missing input from the caller.
	KindValidation
	// KindNotFound means the referenced album or item does not exist.
	KindNotFound
	// KindConflict means the operation is refused in the current state,
	// e.g. deleting a non-empty album.
	KindConflict
	// KindUnavailable means the blob store or catalog is unreachable.
	KindUnavailable
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error is a classified archive error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns a validation error with the given message.
func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// NotFound returns a not-found error with the given message.
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict returns a conflict error with the given message.
func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// Unavailable wraps a storage connectivity failure.
func Unavailable(message string, err error) error {
	return &Error{Kind: KindUnavailable, Message: message, Err: err}
}

// Internal wraps an unexpected failure.
func Internal(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// MessageOf returns the classified message of err, or a generic one for
// unclassified errors so raw internals never leak to callers.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "internal error"
}
