package domain

import (
	"errors"
	"fmt"

	"labcore/internal/pkg/validator"
)

// Error kinds surfaced to unit-of-work callers. Every error returned by the
// repositories matches exactly one of them via errors.Is, or none for
// unexpected failures.
var (
	ErrConstraintViolation = errors.New("constraint violation")
	ErrNotFound            = errors.New("not found")
	ErrAuditFailure        = errors.New("audit failure")
	ErrTransportFailure    = errors.New("transport failure")
	// ErrConflict is a serialization failure or deadlock. The unit can be
	// retried from the start.
	ErrConflict = errors.New("transaction conflict")
)

var (
	ErrInvalidTransition = fmt.Errorf("%w: invalid booking status transition", ErrConstraintViolation)
	ErrOverlap           = fmt.Errorf("%w: equipment already booked in this window", ErrConstraintViolation)
	ErrImmutableType     = fmt.Errorf("%w: resource type cannot change", ErrConstraintViolation)
)

// ValidationError is a ConstraintViolation detected before the write reaches
// the store.
type ValidationError struct {
	Entity string
	Field  string
	Rule   string
	Value  interface{}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: invalid %s: %s", ErrConstraintViolation, e.Entity, e.Rule)
	}
	return fmt.Sprintf("%s: %s.%s failed %q (value %v)", ErrConstraintViolation, e.Entity, e.Field, e.Rule, e.Value)
}

func (e *ValidationError) Unwrap() error { return ErrConstraintViolation }

// Validate runs the struct-tag rules of an entity and reports the first failure.
func Validate(entity string, v interface{}) error {
	fails := validator.Struct(v)
	if len(fails) == 0 {
		return nil
	}
	f := fails[0]
	rule := f.Tag
	if f.Param != "" {
		rule = f.Tag + "=" + f.Param
	}
	return &ValidationError{Entity: entity, Field: f.Field, Rule: rule, Value: f.Value}
}

// Kind names the error kind for logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuditFailure):
		return "audit"
	case errors.Is(err, ErrConstraintViolation):
		return "constraint"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrTransportFailure):
		return "transport"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "other"
	}
}
