package category

import (
	"context"
	"errors"
	"testing"

	"gelataria/internal/domain"
)

type stubRepo struct {
	saved []domain.Category
}

func (s *stubRepo) List(_ context.Context) ([]domain.Category, error) {
	return s.saved, nil
}

func (s *stubRepo) GetBySlug(_ context.Context, slug string) (*domain.Category, error) {
	for _, c := range s.saved {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubRepo) Upsert(_ context.Context, c domain.Category) (*domain.Category, error) {
	s.saved = append(s.saved, c)
	return &c, nil
}

func TestUpsert_NormalizesSlug(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)
	c, err := svc.Upsert(context.Background(), domain.Category{Slug: " Sorbets ", Name: " Sorbets "})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if c.Slug != "sorbets" || c.Name != "Sorbets" {
		t.Fatalf("unexpected category %+v", c)
	}
}

func TestUpsert_RequiresSlugAndName(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)
	if _, err := svc.Upsert(context.Background(), domain.Category{Slug: "x"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(repo.saved) != 0 {
		t.Fatalf("expected nothing saved")
	}
}
