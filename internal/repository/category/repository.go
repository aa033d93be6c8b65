package category

import (
	"context"

	"gelataria/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	// Upsert inserts or renames a category keyed by slug.
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}
