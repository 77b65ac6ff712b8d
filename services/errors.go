package services

import "errors"

// Error taxonomy for the matching core. Controllers map these to HTTP
// statuses; everything else is treated as internal.
var (
	// ErrValidation covers malformed input and self-swipes.
	ErrValidation = errors.New("validation failed")

	// ErrAlreadyActed is returned when an active swipe already exists for the
	// directed pair.
	ErrAlreadyActed = errors.New("already acted on this user")

	// ErrLimitExceeded is returned when a free-tier daily quota is exhausted.
	ErrLimitExceeded = errors.New("daily limit exceeded")

	// ErrNotFound is returned for unknown users, swipes and matches.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller does not own the record acted
	// on.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict marks the losing path of a storage-level uniqueness race.
	// It is resolved inside the core and never surfaces to callers.
	ErrConflict = errors.New("conflict")
)
