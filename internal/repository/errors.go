package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist
	// (or is soft-deleted).
	ErrNotFound = errors.New("entity not found")

	// ErrNoCapacity is returned when a reserve finds no available units.
	ErrNoCapacity = errors.New("no available units")

	// ErrConflict is returned when a guarded update loses a race
	// (the row no longer satisfies the expected state).
	ErrConflict = errors.New("conflicting state")

	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("entity already exists")
)
