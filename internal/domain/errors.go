package domain

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnauthenticated is returned when an operation needs a signed-in user.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when the acting user lacks the admin role.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation marks input rejected before any write.
	ErrValidation = errors.New("validation failed")
)

// IsValidID reports whether id is a well-formed row identifier. Malformed ids
// are treated as not found rather than sent to the database.
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
