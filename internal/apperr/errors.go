package apperr

import "errors"

// Error kinds surfaced by the service layer. Handlers map these to HTTP
// status codes in one place; services wrap them with context via fmt.Errorf
// and %w so errors.Is still matches.
var (
	// ErrNotFound - referenced record absent or not owned by the caller
	ErrNotFound = errors.New("not found")

	// ErrForbidden - missing relationship, access not granted, role mismatch
	ErrForbidden = errors.New("forbidden")

	// ErrConflict - duplicate relationship or duplicate pending request
	ErrConflict = errors.New("conflict")

	// ErrInvalidState - request already processed, owner not inactive
	ErrInvalidState = errors.New("invalid state")

	// ErrUnauthorized - missing or invalid credentials/token
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation - malformed or out-of-range input
	ErrValidation = errors.New("validation error")
)
