package storage

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrUniqueViolation is returned when a write collides with a uniqueness constraint.
	ErrUniqueViolation = errors.New("unique constraint violation")
	// ErrNotInitialized is returned when the database file has not been created yet.
	ErrNotInitialized = errors.New("storage not initialized, run 'tally init' first")
)
