package repository

import "errors"

var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry means a unique constraint was violated.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
	// ErrVersionConflict means the record changed since it was read.
	ErrVersionConflict = errors.New("repository: version conflict")
)
