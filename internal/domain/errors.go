package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for each error kind. Use errors.Is against these.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidState    = errors.New("invalid state")
	ErrAlreadyOccupied = errors.New("already occupied")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
)

// Error is a domain error carrying its kind and a human-readable message.
type Error struct {
	kind    error
	message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.message
}

// Unwrap returns the sentinel describing the error kind.
func (e *Error) Unwrap() error {
	return e.kind
}

// Kind returns the sentinel describing the error kind.
func (e *Error) Kind() error {
	return e.kind
}

// NewNotFoundError reports that an entity with the given identifier does not exist.
func NewNotFoundError(entity, id string) *Error {
	return &Error{kind: ErrNotFound, message: fmt.Sprintf("%s not found: %s", entity, id)}
}

// NewInvalidStateError reports a forbidden lifecycle transition.
func NewInvalidStateError(from, to string) *Error {
	return &Error{kind: ErrInvalidState, message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// NewAlreadyOccupiedError reports a direct assignment into a taken slot.
func NewAlreadyOccupiedError(level, number int) *Error {
	return &Error{kind: ErrAlreadyOccupied, message: fmt.Sprintf("slot %d on level %d is already occupied", number, level)}
}

// NewValidationError reports invalid input.
func NewValidationError(message string) *Error {
	return &Error{kind: ErrValidation, message: message}
}

// NewConflictError reports a uniqueness violation.
func NewConflictError(message string) *Error {
	return &Error{kind: ErrConflict, message: message}
}
