package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors identify the kind of a failure - use with errors.Is()
var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("permission denied")
	ErrInvalidState        = errors.New("invalid state")
	ErrConflict            = errors.New("already exists")
	ErrAllocationExhausted = errors.New("allocation exhausted")
	ErrUpstream            = errors.New("upstream failure")
	ErrInternal            = errors.New("internal error")
	ErrValidation          = errors.New("validation failed")
	ErrUnauthorized        = errors.New("unauthorized")
)

// Error is the structured error returned across the service boundary.
// Kind is one of the sentinel errors above.
type Error struct {
	Kind    error
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause
func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is() to match against the kind sentinel
func (e *Error) Is(target error) bool { return target == e.Kind }

// StatusCode implements the HTTPError interface
func (e *Error) StatusCode() int { return statusForKind(e.Kind) }

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf reports a referenced folder, file or organization that does not exist.
func NotFoundf(format string, args ...any) *Error { return newError(ErrNotFound, format, args...) }

// Forbiddenf reports a caller that is not a member of the organization.
func Forbiddenf(format string, args ...any) *Error { return newError(ErrForbidden, format, args...) }

// InvalidStatef reports a trashed ancestor or an ancestry mismatch.
func InvalidStatef(format string, args ...any) *Error {
	return newError(ErrInvalidState, format, args...)
}

// Validationf reports malformed input.
func Validationf(format string, args ...any) *Error { return newError(ErrValidation, format, args...) }

// Internalf reports a broken invariant inside the core.
func Internalf(format string, args ...any) *Error { return newError(ErrInternal, format, args...) }

// Exhausted reports a bounded allocator that ran out of attempts.
func Exhausted(format string, args ...any) *Error {
	return newError(ErrAllocationExhausted, format, args...)
}

// Upstream wraps a failure of the object store or the metadata store.
func Upstream(op string, err error) *Error {
	return &Error{Kind: ErrUpstream, Message: fmt.Sprintf("%s: %v", op, err), Err: err}
}

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (folder, file, organization, membership)
	ResourceID   string // ID of the existing/conflicting resource, when known
	Field        string // Unique field that collided, e.g. "invitation_code"
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// Classify guarantees a structured error. Errors that already carry a kind pass
// through unchanged; timeouts and store failures become ErrUpstream.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	var ce *ConflictError
	if errors.As(err, &ce) {
		return err
	}
	for _, kind := range []error{ErrNotFound, ErrForbidden, ErrInvalidState, ErrConflict, ErrValidation, ErrUnauthorized} {
		if errors.Is(err, kind) {
			return &Error{Kind: kind, Message: err.Error(), Err: err}
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Upstream(op+": timed out", err)
	}
	return Upstream(op, err)
}

// KindOf returns the sentinel describing err, or ErrInternal for unknown errors.
func KindOf(err error) error {
	for _, kind := range []error{
		ErrNotFound, ErrForbidden, ErrInvalidState, ErrConflict, ErrAllocationExhausted,
		ErrUpstream, ErrValidation, ErrUnauthorized, ErrInternal,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrInternal
}

func statusForKind(kind error) int {
	switch kind {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrForbidden:
		return http.StatusForbidden
	case ErrInvalidState:
		return http.StatusUnprocessableEntity
	case ErrConflict:
		return http.StatusConflict
	case ErrAllocationExhausted:
		return http.StatusServiceUnavailable
	case ErrUpstream:
		return http.StatusBadGateway
	case ErrValidation:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
