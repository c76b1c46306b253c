package habits

import "errors"

var (
	// ErrInvalidIdentifier is returned when a habit id is not a positive decimal integer.
	ErrInvalidIdentifier = errors.New("invalid habit identifier")
	// ErrNotFound is returned when no habit has the requested id.
	ErrNotFound = errors.New("habit not found")
	// ErrInvalidInput is returned when habit fields or history dates fail validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoCompletion is returned when there is no completion to remove for today.
	ErrNoCompletion = errors.New("no completions recorded today")
)
