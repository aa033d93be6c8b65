package cart

import (
	"context"

	"gelataria/internal/domain"
)

// Repository reads and writes cart_items rows. Every method is scoped to the
// owning user so one user can never touch another user's rows.
type Repository interface {
	// ListByUser returns the user's items joined with their products. Items
	// whose product no longer exists carry a nil Product.
	ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
	// Upsert adds quantity to the (user, product) row, creating it if absent.
	Upsert(ctx context.Context, userID, productID string, quantity int) error
	SetQuantity(ctx context.Context, userID, itemID string, quantity int) error
	Delete(ctx context.Context, userID, itemID string) error
	DeleteByUser(ctx context.Context, userID string) error
}
