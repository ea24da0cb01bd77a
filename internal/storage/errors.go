package storage

import dErrors "badgehub/pkg/domain-errors"

var (
	// ErrNotFound keeps storage-specific 404s consistent across the
	// in-memory and PostgreSQL implementations.
	ErrNotFound = dErrors.New(dErrors.CodeNotFound, "record not found")

	// ErrConflict is returned when a uniqueness constraint is violated,
	// e.g. a second award for the same (user, badge) pair.
	ErrConflict = dErrors.New(dErrors.CodeConflict, "record already exists")
)
