package domain

import (
	"errors"
	"fmt"
)

// NotFoundError indicates that a referenced entity does not resolve.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s not found", e.Entity, e.ID)
}

// NewNotFoundError creates a NotFoundError for the given entity kind and id.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError indicates input that is structurally acceptable but
// semantically wrong (bad time window, unavailable item, bad pagination).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// UnknownStateError indicates an unrecognized booking-state token.
type UnknownStateError struct {
	Token string
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("Unknown state: %s", e.Token)
}

// NewUnknownStateError creates an UnknownStateError for the given token.
func NewUnknownStateError(token string) error {
	return &UnknownStateError{Token: token}
}

// ForbiddenError indicates the actor lacks rights to act on an entity.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// NewForbiddenError creates a ForbiddenError with the given message.
func NewForbiddenError(msg string) error {
	return &ForbiddenError{Message: msg}
}

// ConflictError indicates a uniqueness violation (duplicate email).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NewConflictError creates a ConflictError with the given message.
func NewConflictError(msg string) error {
	return &ConflictError{Message: msg}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsUnknownState reports whether err is an UnknownStateError.
func IsUnknownState(err error) bool {
	var target *UnknownStateError
	return errors.As(err, &target)
}

// IsForbidden reports whether err is a ForbiddenError.
func IsForbidden(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}
