package favorite

import (
	"context"

	"gelataria/internal/domain"
)

type Repository interface {
	// ListByUser returns favorites joined with their products, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error)
	// Find returns domain.ErrNotFound when the product is not a favorite.
	Find(ctx context.Context, userID, productID string) (*domain.Favorite, error)
	Create(ctx context.Context, userID, productID string) (*domain.Favorite, error)
	Delete(ctx context.Context, userID, id string) error
}
