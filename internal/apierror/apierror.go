// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Kind classifies a business error so the boundary layer can translate it
// into a response code without inspecting message strings.
type Kind int

const (
	// KindValidation: malformed input. 400, never retried.
	KindValidation Kind = iota
	// KindConflict: business-rule violation (double check-in, nothing to
	// distribute, zero points). 400; retrying without new facts fails again.
	KindConflict
	// KindNotFound: entity lookup miss. 404.
	KindNotFound
	// KindForbidden: caller lacks the required role. 403.
	KindForbidden
	// KindStore: transaction or connectivity failure. 500; the transaction
	// guarantees no partial writes survived, so callers may safely retry.
	KindStore
)

// Error is a classified business error. Services return these; handlers map
// them to status codes via Status.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string { return e.Detail }

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Detail: msg} }
func Conflict(msg string) *Error   { return &Error{Kind: KindConflict, Detail: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Detail: msg} }
func Forbidden(msg string) *Error  { return &Error{Kind: KindForbidden, Detail: msg} }

// Store wraps an infrastructure failure. The original error is preserved for
// logging but never reaches the client.
func Store(err error) *Error {
	return &Error{Kind: KindStore, Detail: "Error interno del servidor", Err: err}
}

// Status resolves the HTTP status code for an error. Unclassified errors are
// treated as internal failures.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
