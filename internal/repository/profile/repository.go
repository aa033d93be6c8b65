package profile

import (
	"context"

	"gelataria/internal/domain"
)

type Repository interface {
	// Get returns domain.ErrNotFound when the user has no profile row yet.
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Upsert(ctx context.Context, p domain.Profile) (*domain.Profile, error)
}
