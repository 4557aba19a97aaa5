package entities

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Domain errors
var (
	// Workflow errors
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")

	// User errors
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	ErrInvalidRole  = fmt.Errorf("%w: invalid role", ErrValidation)
)

// TransitionError describes a rejected status change on a single entity.
type TransitionError struct {
	Entity EntityType
	ID     uuid.UUID
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s %s: cannot transition from %q to %q", e.Entity, e.ID, e.From, e.To)
}

// Is makes errors.Is(err, ErrInvalidTransition) match.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// NewTransitionError builds a TransitionError
func NewTransitionError(entity EntityType, id uuid.UUID, from, to string) *TransitionError {
	return &TransitionError{Entity: entity, ID: id, From: from, To: to}
}

// ValidationError reports a missing or malformed field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError names the missing entity.
type NotFoundError struct {
	Entity EntityType
	ID     uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError builds a NotFoundError
func NewNotFoundError(entity EntityType, id uuid.UUID) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}
