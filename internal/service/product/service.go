package product

import (
	"context"
	"errors"
	"strings"

	"gelataria/internal/domain"
	productrepo "gelataria/internal/repository/product"
)

// CategoryLookup resolves a category slug used as a listing filter.
type CategoryLookup interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
}

type Service struct {
	repo       productrepo.Repository
	categories CategoryLookup
}

func New(repo productrepo.Repository, categories CategoryLookup) *Service {
	return &Service{repo: repo, categories: categories}
}

// ListInput narrows the storefront listing. Category is a category id or slug.
type ListInput struct {
	Category     string
	FeaturedOnly bool
}

// List returns products on sale, featured first. An unknown category
// yields an empty list.
func (s *Service) List(ctx context.Context, in ListInput) ([]domain.Product, error) {
	categoryID, err := s.resolveCategory(ctx, in.Category)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.Product{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, productrepo.ListFilter{
		CategoryID:    categoryID,
		AvailableOnly: true,
		FeaturedOnly:  in.FeaturedOnly,
	})
}

func (s *Service) resolveCategory(ctx context.Context, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || domain.IsValidID(raw) {
		return raw, nil
	}
	if s.categories == nil {
		return "", domain.ErrNotFound
	}
	c, err := s.categories.GetBySlug(ctx, strings.ToLower(raw))
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

// Get returns a product even when it is not currently available.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	if !domain.IsValidID(id) {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	return s.repo.Upsert(ctx, p)
}
