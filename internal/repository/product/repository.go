package product

import (
	"context"

	"gelataria/internal/domain"
)

// ListFilter narrows catalog listings. Zero value lists every product.
type ListFilter struct {
	CategoryID    string
	AvailableOnly bool
	FeaturedOnly  bool
}

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	// Upsert inserts or updates a product keyed by slug.
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
