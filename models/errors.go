package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotLinked means the acting identity has no internal profile.
	ErrNotLinked = errors.New("identity is not linked to a profile")

	// ErrValidation is the root of all request validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrPoolUnavailable means every profile pool query of a search failed.
	ErrPoolUnavailable = errors.New("profile pool unavailable")
)

// ValidationError describes a rejected request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
