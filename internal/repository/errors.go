package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict indicates a storage-level uniqueness or referential
	// constraint rejected the write. The constraint is the final arbiter;
	// usecase pre-checks only narrow the window.
	ErrConflict = errors.New("repository: constraint violation")
)
