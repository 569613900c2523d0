package storage

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when inserting a record whose fingerprint
	// already exists. Insert relies on the primary key constraint, so the
	// check-and-write is a single atomic operation.
	ErrDuplicate = errors.New("duplicate record")
)
