package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"gelataria/internal/domain"
	"gelataria/internal/events"
	cartrepo "gelataria/internal/repository/cart"
)

// ErrProductUnavailable is returned when adding a product that is not on sale.
var ErrProductUnavailable = errors.New("product is not available")

type Service struct {
	repo        cartrepo.Repository
	productRepo productRepo
	events      events.Publisher
	logger      *log.Logger
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, productRepo productRepo, publisher events.Publisher, logger *log.Logger) *Service {
	if publisher == nil {
		publisher = events.Discard
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, productRepo: productRepo, events: publisher, logger: logger}
}

// Fetch returns the user's cart. Without a user it returns an empty cart and
// does not touch storage.
func (s *Service) Fetch(ctx context.Context, userID string) (domain.Cart, error) {
	if userID == "" {
		return domain.NewCart("", nil), nil
	}
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Printf("cart: fetch user_id=%s error=%v", userID, err)
		return domain.Cart{}, err
	}
	return domain.NewCart(userID, items), nil
}

// Add merges quantity into the user's line for productID.
func (s *Service) Add(ctx context.Context, userID, productID string, quantity int) (domain.Cart, error) {
	if userID == "" {
		return domain.Cart{}, domain.ErrUnauthenticated
	}
	if quantity < 1 {
		return domain.Cart{}, fmt.Errorf("quantity must be at least 1: %w", domain.ErrValidation)
	}
	if quantity > domain.MaxItemQuantity {
		return domain.Cart{}, fmt.Errorf("quantity must be at most %d: %w", domain.MaxItemQuantity, domain.ErrValidation)
	}
	if !domain.IsValidID(productID) {
		return domain.Cart{}, domain.ErrNotFound
	}
	if s.productRepo != nil {
		p, err := s.productRepo.GetByID(ctx, productID)
		if err != nil {
			return domain.Cart{}, err
		}
		if !p.Available {
			return domain.Cart{}, ErrProductUnavailable
		}
	}
	if err := s.repo.Upsert(ctx, userID, productID, quantity); err != nil {
		return domain.Cart{}, err
	}
	return s.refetch(ctx, userID)
}

// UpdateQuantity sets an item's quantity; anything below 1 removes the item.
func (s *Service) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (domain.Cart, error) {
	if quantity < 1 {
		return s.Remove(ctx, userID, itemID)
	}
	if userID == "" {
		return domain.Cart{}, domain.ErrUnauthenticated
	}
	if quantity > domain.MaxItemQuantity {
		return domain.Cart{}, fmt.Errorf("quantity must be at most %d: %w", domain.MaxItemQuantity, domain.ErrValidation)
	}
	if !domain.IsValidID(itemID) {
		return domain.Cart{}, domain.ErrNotFound
	}
	if err := s.repo.SetQuantity(ctx, userID, itemID, quantity); err != nil {
		return domain.Cart{}, err
	}
	return s.refetch(ctx, userID)
}

func (s *Service) Remove(ctx context.Context, userID, itemID string) (domain.Cart, error) {
	if userID == "" {
		return domain.Cart{}, domain.ErrUnauthenticated
	}
	if !domain.IsValidID(itemID) {
		return domain.Cart{}, domain.ErrNotFound
	}
	if err := s.repo.Delete(ctx, userID, itemID); err != nil {
		return domain.Cart{}, err
	}
	return s.refetch(ctx, userID)
}

func (s *Service) Clear(ctx context.Context, userID string) (domain.Cart, error) {
	if userID == "" {
		return domain.Cart{}, domain.ErrUnauthenticated
	}
	if err := s.repo.DeleteByUser(ctx, userID); err != nil {
		return domain.Cart{}, err
	}
	return s.refetch(ctx, userID)
}

func (s *Service) refetch(ctx context.Context, userID string) (domain.Cart, error) {
	c, err := s.Fetch(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}
	s.events.Publish(ctx, events.Event{
		Topic:   events.TopicCartChanged,
		Key:     userID,
		Payload: map[string]interface{}{"count": c.Count, "total": c.Total},
	})
	return c, nil
}
