package category

import (
	"context"
	"fmt"
	"strings"

	"gelataria/internal/domain"
	"gelataria/internal/repository/category"
)

type Service struct {
	repo category.Repository
}

func New(repo category.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

// Upsert creates or renames the category with c.Slug.
func (s *Service) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	c.Slug = strings.ToLower(strings.TrimSpace(c.Slug))
	c.Name = strings.TrimSpace(c.Name)
	if c.Slug == "" || c.Name == "" {
		return nil, fmt.Errorf("category slug and name required: %w", domain.ErrValidation)
	}
	return s.repo.Upsert(ctx, c)
}
