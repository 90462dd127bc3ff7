// Package errors defines the domain error taxonomy shared by every layer.
// The repository layer translates store failures into these kinds once, at
// its boundary; nothing above it ever sees a raw store error.
package errors

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a domain error.
type Kind string

const (
	KindValidation Kind = "VALIDATION_ERROR"
	KindNotFound   Kind = "ENTITY_NOT_FOUND"
	KindConflict   Kind = "CONFLICT"
	KindInfra      Kind = "INFRA_ERROR"
	KindUnknown    Kind = "UNKNOWN_ERROR"
)

// DomainError is the single error type crossing layer boundaries. It carries
// a kind for classification, optional structured details, and the original
// cause for diagnostics.
type DomainError struct {
	Kind    Kind                   `json:"kind"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// WithCause attaches an underlying error.
func (e *DomainError) WithCause(err error) *DomainError {
	e.Cause = err
	return e
}

// WithDetail attaches a single detail entry.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Message: message,
	}
}

// NewValidationErrorForField creates a validation error tagged with the
// offending field.
func NewValidationErrorForField(field, message string) *DomainError {
	return NewValidationError(message).WithDetail("field", field)
}

// NewNotFoundError creates an entity-not-found error. Raised only by
// service-level "must exist" lookups; repository reads report a miss as an
// absent result instead.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s with id %s not found", entity, id),
		Details: map[string]interface{}{"entity": entity, "id": id},
	}
}

// NewConflictError creates a conflict error.
func NewConflictError(message string) *DomainError {
	return &DomainError{
		Kind:    KindConflict,
		Message: message,
	}
}

// NewVersionMismatchError is the conflict raised when an optimistic write
// loses the race. A vanished record and a stale version are deliberately
// indistinguishable here; the corrective action is the same re-read and retry.
func NewVersionMismatchError() *DomainError {
	return NewConflictError("Write conflict (version mismatch)").
		WithDetail("reason", "VERSION_MISMATCH")
}

// NewInfraError creates an infrastructure error carrying the offending table
// or index name and the original cause.
func NewInfraError(message, table string, cause error) *DomainError {
	return &DomainError{
		Kind:    KindInfra,
		Message: message,
		Details: map[string]interface{}{"table": table},
		Cause:   cause,
	}
}

// NewUnknownError creates the fallback error for anything unclassified.
func NewUnknownError(message string, cause error) *DomainError {
	return &DomainError{
		Kind:    KindUnknown,
		Message: message,
		Cause:   cause,
	}
}

// AsDomainError extracts a DomainError from an error chain, or nil.
func AsDomainError(err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return nil
}

// KindOf reports the kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	if de := AsDomainError(err); de != nil {
		return de.Kind
	}
	return KindUnknown
}

// IsKind checks whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	de := AsDomainError(err)
	return de != nil && de.Kind == kind
}

// IsValidation checks for a validation error.
func IsValidation(err error) bool { return IsKind(err, KindValidation) }

// IsNotFound checks for an entity-not-found error.
func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }

// IsConflict checks for a conflict error.
func IsConflict(err error) bool { return IsKind(err, KindConflict) }

// IsInfra checks for an infrastructure error.
func IsInfra(err error) bool { return IsKind(err, KindInfra) }

// IsDomain reports whether err is any classified domain error. The ingestion
// pipeline uses this to decide whether a per-row message is safe to surface.
func IsDomain(err error) bool {
	return AsDomainError(err) != nil
}
