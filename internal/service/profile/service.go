package profile

import (
	"context"
	"errors"
	"strings"

	"gelataria/internal/domain"
	profilerepo "gelataria/internal/repository/profile"
	"gelataria/internal/validation"
)

type orderLister interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

type Service struct {
	repo   profilerepo.Repository
	orders orderLister
}

func New(repo profilerepo.Repository, orders orderLister) *Service {
	return &Service{repo: repo, orders: orders}
}

// UpdateInput is the editable part of a profile. Delivery fields may be left
// blank; when set they follow the checkout form's limits.
type UpdateInput struct {
	FullName   string `json:"fullName" validate:"min=2,max=100" msg:"name must be at least 2 characters"`
	Phone      string `json:"phone" validate:"omitempty,min=9,max=20" msg:"invalid phone number"`
	Address    string `json:"address" validate:"omitempty,min=5,max=200" msg:"address is too short"`
	City       string `json:"city" validate:"omitempty,min=2,max=100" msg:"invalid city"`
	PostalCode string `json:"postalCode" validate:"omitempty,min=4,max=20" msg:"invalid postal code"`
}

// Get returns the user's profile, or empty defaults when none is stored yet.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	p, err := s.repo.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Profile{UserID: userID}, nil
	}
	return p, err
}

// Update saves the profile, creating it if it does not exist.
func (s *Service) Update(ctx context.Context, userID string, in UpdateInput) (*domain.Profile, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	in = UpdateInput{
		FullName:   strings.TrimSpace(in.FullName),
		Phone:      strings.TrimSpace(in.Phone),
		Address:    strings.TrimSpace(in.Address),
		City:       strings.TrimSpace(in.City),
		PostalCode: strings.TrimSpace(in.PostalCode),
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return s.repo.Upsert(ctx, domain.Profile{
		UserID:     userID,
		FullName:   in.FullName,
		Phone:      in.Phone,
		Address:    in.Address,
		City:       in.City,
		PostalCode: in.PostalCode,
	})
}

// Orders lists the user's own orders, newest first.
func (s *Service) Orders(ctx context.Context, userID string) ([]domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.orders.ListByUser(ctx, userID)
}
