package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain error and carries the HTTP status hint for it
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Status returns the HTTP status code associated with the kind
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is the error type returned by the service and storage layers
// for failures the caller can act on.
type Error struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Status returns the HTTP status hint of the error
func (e *Error) Status() int {
	return e.Kind.Status()
}

// Is matches any *Error of the same kind, so the sentinels below
// work with errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Domain-level errors
var (
	ErrValidation = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrConflict   = &Error{Kind: KindConflict, Message: "conflict"}
	ErrNotFound   = &Error{Kind: KindNotFound, Message: "not found"}
)

// NewValidationError reports a missing or malformed input field
func NewValidationError(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NewConflictError reports a duplicate unique key
func NewConflictError(field, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError reports that the entity with the given id does not exist
func NewNotFoundError(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Field: "id", Message: fmt.Sprintf("%s not found: %s", entity, id)}
}

// KindOf extracts the kind of err, KindUnknown for untagged errors
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// StatusOf maps err to an HTTP status code; untagged errors are 500
func StatusOf(err error) int {
	return KindOf(err).Status()
}
