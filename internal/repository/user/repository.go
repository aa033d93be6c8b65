package user

import (
	"context"

	"gelataria/internal/domain"
)

// Repository persists users and their roles.
type Repository interface {
	// CreateWithProfile inserts the user and an initial profile carrying fullName.
	CreateWithProfile(ctx context.Context, u domain.User, fullName string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	HasRole(ctx context.Context, userID, role string) (bool, error)
	GrantRole(ctx context.Context, userID, role string) error
}
