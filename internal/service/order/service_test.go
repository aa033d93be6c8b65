package order

import (
	"context"
	"testing"

	"gelataria/internal/domain"
	"gelataria/internal/events"
	orderrepo "gelataria/internal/repository/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderID = "5d2c1b0a-9f8e-4d7c-8b6a-000000000001"

type memoryOrders struct {
	orders []domain.Order
}

func (m *memoryOrders) Place(_ context.Context, _ orderrepo.PlaceInput) (*domain.Order, error) {
	return nil, nil
}

func (m *memoryOrders) List(_ context.Context, status *domain.OrderStatus) ([]domain.Order, error) {
	out := []domain.Order{}
	for _, o := range m.orders {
		if status == nil || o.Status == *status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memoryOrders) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	out := []domain.Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memoryOrders) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders[i].Status = status
			clone := m.orders[i]
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memoryOrders) Stats(_ context.Context) (domain.OrderStats, error) {
	var s domain.OrderStats
	for _, o := range m.orders {
		s.Total++
		switch o.Status {
		case domain.OrderPending:
			s.Pending++
		case domain.OrderPreparing:
			s.Preparing++
		case domain.OrderReady:
			s.Ready++
		}
	}
	return s, nil
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) {
	p.events = append(p.events, e)
}

func newBoard() (*Service, *memoryOrders, *recordingPublisher) {
	repo := &memoryOrders{orders: []domain.Order{
		{
			ID:     orderID,
			UserID: "user-1",
			Total:  decimal.RequireFromString("7.00"),
			Status: domain.OrderPending,
			Items:  []domain.OrderItem{{ProductName: "Pistachio", Quantity: 2, UnitPrice: decimal.RequireFromString("3.50")}},
		},
		{ID: "5d2c1b0a-9f8e-4d7c-8b6a-000000000002", UserID: "user-2", Status: domain.OrderDelivered},
	}}
	pub := &recordingPublisher{}
	return New(repo, pub, nil), repo, pub
}

func TestSetStatus_OnlyStatusChanges(t *testing.T) {
	svc, repo, pub := newBoard()
	updated, err := svc.SetStatus(context.Background(), orderID, "ready")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderReady, updated.Status)
	assert.Equal(t, "7.00", updated.Total.StringFixed(2))
	assert.Len(t, updated.Items, 1)
	assert.Equal(t, domain.OrderReady, repo.orders[0].Status)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TopicOrderStatusChanged, pub.events[0].Topic)
	assert.Equal(t, orderID, pub.events[0].Key)
}

func TestSetStatus_AnyKnownStatusAccepted(t *testing.T) {
	svc, _, _ := newBoard()
	// delivered -> pending is not a suggested transition but is allowed
	updated, err := svc.SetStatus(context.Background(), "5d2c1b0a-9f8e-4d7c-8b6a-000000000002", "pending")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, updated.Status)
}

func TestSetStatus_Rejections(t *testing.T) {
	svc, _, pub := newBoard()
	_, err := svc.SetStatus(context.Background(), orderID, "shipped")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.SetStatus(context.Background(), "5d2c1b0a-9f8e-4d7c-8b6a-0000000000ff", "ready")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.SetStatus(context.Background(), "bogus", "ready")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, pub.events)
}

func TestList_Filter(t *testing.T) {
	svc, _, _ := newBoard()
	ctx := context.Background()

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	all, err = svc.List(ctx, "ALL")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := svc.List(ctx, "pending")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, orderID, pending[0].ID)

	_, err = svc.List(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStats(t *testing.T) {
	svc, _, _ := newBoard()
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStats{Total: 2, Pending: 1}, stats)
}
