package favorite

import (
	"context"
	"errors"

	"gelataria/internal/domain"
	favoriterepo "gelataria/internal/repository/favorite"
)

type Service struct {
	repo favoriterepo.Repository
}

func New(repo favoriterepo.Repository) *Service {
	return &Service{repo: repo}
}

// ToggleResult reports whether the product is a favorite after the toggle.
type ToggleResult struct {
	ProductID string `json:"productId"`
	Favorited bool   `json:"favorited"`
}

// Toggle adds the product to the user's favorites, or removes it if present.
func (s *Service) Toggle(ctx context.Context, userID, productID string) (ToggleResult, error) {
	if userID == "" {
		return ToggleResult{}, domain.ErrUnauthenticated
	}
	if !domain.IsValidID(productID) {
		return ToggleResult{}, domain.ErrNotFound
	}
	existing, err := s.repo.Find(ctx, userID, productID)
	switch {
	case err == nil:
		if err := s.repo.Delete(ctx, userID, existing.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return ToggleResult{}, err
		}
		return ToggleResult{ProductID: productID, Favorited: false}, nil
	case !errors.Is(err, domain.ErrNotFound):
		return ToggleResult{}, err
	}

	if _, err := s.repo.Create(ctx, userID, productID); err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
		return ToggleResult{}, err
	}
	return ToggleResult{ProductID: productID, Favorited: true}, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Favorite, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Remove(ctx context.Context, userID, id string) error {
	if userID == "" {
		return domain.ErrUnauthenticated
	}
	if !domain.IsValidID(id) {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, userID, id)
}
