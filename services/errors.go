package services

import "errors"

// Sentinel errors shared by the services; handlers translate these into
// HTTP statuses at the boundary.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("access denied")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid password")
	ErrValidation         = errors.New("validation failed")
)
