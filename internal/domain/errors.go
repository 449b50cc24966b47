/**
 * @description
 * This file defines the error taxonomy shared across the service layers.
 * Handlers translate these kinds into HTTP status codes; the layers below
 * only ever deal in these tagged errors.
 */
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the non-validation failure classes.
var (
	// ErrNotFound is returned when an identifier does not resolve to a stored record.
	ErrNotFound = errors.New("record not found")

	// ErrNotOwner is returned when the acting user does not own the resource.
	ErrNotOwner = errors.New("not the owner of this resource")

	// ErrInvalidCredentials is returned on a failed sign-in attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering with an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
)

// ValidationError reports a malformed or out-of-range field. The request that
// produced it must have no side effects.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// DependencyError wraps a failure of an external collaborator (workflow
// engine, mail transport). It never rolls back a write that already
// committed before the collaborator was called.
type DependencyError struct {
	Collaborator string
	Err          error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s dependency failed: %v", e.Collaborator, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}
