package order

import (
	"context"

	"gelataria/internal/domain"
	"github.com/shopspring/decimal"
)

// PlaceInput carries everything written when a cart becomes an order.
type PlaceInput struct {
	UserID   string
	Total    decimal.Decimal
	Delivery domain.DeliveryDetails
	Items    []domain.OrderItem
}

type Repository interface {
	// Place inserts the order and its items, saves the delivery fields onto
	// the user's profile and clears the user's cart in a single transaction.
	Place(ctx context.Context, in PlaceInput) (*domain.Order, error)
	// List returns orders with items, newest first. A nil status lists all.
	List(ctx context.Context, status *domain.OrderStatus) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	Stats(ctx context.Context) (domain.OrderStats, error)
}
