package models

import "errors"

// Domain error kinds. Repositories and services wrap these with context via
// fmt.Errorf("...: %w", ...); callers match them with errors.Is.
var (
	// ErrNotFound indicates the requested entity or key is absent
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness or open-assignment violation
	ErrConflict = errors.New("conflict")

	// ErrInvalidState indicates an illegal state transition
	ErrInvalidState = errors.New("invalid state")

	// ErrReferential indicates a foreign key target is missing
	ErrReferential = errors.New("referential error")

	// ErrValidation indicates a strict-mode validation failure
	ErrValidation = errors.New("validation error")
)
