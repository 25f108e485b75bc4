package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no record matches the requested ID.
var ErrNotFound = errors.New("record not found")

// ConflictKind classifies a constraint violation reported by the record
// store.
type ConflictKind string

// Conflict kind constants
const (
	// ConflictDuplicate indicates a uniqueness violation on insert/update
	ConflictDuplicate ConflictKind = "duplicate"
	// ConflictReferenced indicates a foreign-key restriction, typically on
	// delete of a record other rows still point at
	ConflictReferenced ConflictKind = "referenced"
)

// ConflictError reports a constraint violation from the record store.
type ConflictError struct {
	Kind       ConflictKind
	Constraint string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("constraint violation (%s): %s", e.Kind, e.Constraint)
}

// IsConflict reports whether err is (or wraps) a ConflictError, returning
// it when so.
func IsConflict(err error) (*ConflictError, bool) {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict, true
	}
	return nil, false
}

// ErrorTranslator converts driver-specific errors into repository errors.
// Store adapters implement this so the generic repository stays
// driver-agnostic.
type ErrorTranslator interface {
	TranslateError(err error) error
}
