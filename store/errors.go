package store

import "errors"

var (
	// ErrNotFound is returned when a mutation targets an entity that doesn't exist.
	ErrNotFound = errors.New("teamplane: entity not found")

	// ErrDuplicateEmail is returned when another profile in the domain already
	// uses the email (case-insensitive).
	ErrDuplicateEmail = errors.New("teamplane: email already in use")

	// ErrConcurrentModification is returned when the version guard fails on a
	// read-modify-write.
	ErrConcurrentModification = errors.New("teamplane: entity was modified concurrently")
)
