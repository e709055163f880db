package repository

import "errors"

var (
	// ErrDuplicateEmail is returned by CreateUser when the normalized
	// email is already taken.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrNotFound is returned when no record matches the given key.
	ErrNotFound = errors.New("not found")
)
