package service

import "errors"

var (
	ErrValidation      = errors.New("validation")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrConflict        = errors.New("conflict")
	// ErrInvalidState covers rows that break an invariant the schema is
	// supposed to hold, like a user without a role.
	ErrInvalidState = errors.New("invalid state")
)
