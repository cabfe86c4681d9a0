package models

import "errors"

var (
	// ErrNotFound is returned when a record does not exist or is not visible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrLoginExists is returned when registering a login that is already taken.
	ErrLoginExists = errors.New("user with this login already exists")

	// ErrValidation marks malformed input. Callers wrap it with the offending field.
	ErrValidation = errors.New("invalid input")
)
