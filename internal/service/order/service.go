package order

import (
	"context"
	"io"
	"log"
	"strings"

	"gelataria/internal/domain"
	"gelataria/internal/events"
	orderrepo "gelataria/internal/repository/order"
)

// FilterAll lists orders in every status.
const FilterAll = "all"

// Service backs the operator board. Callers are expected to have checked the
// admin role already.
type Service struct {
	repo   orderrepo.Repository
	events events.Publisher
	logger *log.Logger
}

func New(repo orderrepo.Repository, publisher events.Publisher, logger *log.Logger) *Service {
	if publisher == nil {
		publisher = events.Discard
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, events: publisher, logger: logger}
}

// List returns orders newest first. filter is "all" (or empty) or one status.
func (s *Service) List(ctx context.Context, filter string) ([]domain.Order, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" || strings.EqualFold(filter, FilterAll) {
		return s.repo.List(ctx, nil)
	}
	status, err := domain.ParseOrderStatus(filter)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, &status)
}

func (s *Service) Stats(ctx context.Context) (domain.OrderStats, error) {
	return s.repo.Stats(ctx)
}

// SetStatus moves an order to any known status. Only the status changes.
func (s *Service) SetStatus(ctx context.Context, orderID, rawStatus string) (*domain.Order, error) {
	status, err := domain.ParseOrderStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	if !domain.IsValidID(orderID) {
		return nil, domain.ErrNotFound
	}
	updated, err := s.repo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("order board: status order_id=%s status=%s", orderID, status)
	s.events.Publish(ctx, events.Event{
		Topic:   events.TopicOrderStatusChanged,
		Key:     orderID,
		Payload: map[string]interface{}{"orderId": orderID, "status": status},
	})
	return updated, nil
}
