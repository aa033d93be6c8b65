package cart

import (
	"context"
	"errors"
	"testing"

	"gelataria/internal/domain"
	"gelataria/internal/events"
	"github.com/shopspring/decimal"
)

const (
	userID    = "user-1"
	productID = "6f1c2d3e-0000-4000-8000-000000000001"
	itemID    = "6f1c2d3e-0000-4000-8000-0000000000a1"
)

// stubRepo keeps rows in memory keyed by (user, product), like the table's
// unique constraint.
type stubRepo struct {
	items      []domain.CartItem
	products   map[string]*domain.Product
	listCalls  int
	upsertErr  error
	lastDelete string
}

func (s *stubRepo) ListByUser(_ context.Context, uid string) ([]domain.CartItem, error) {
	s.listCalls++
	out := []domain.CartItem{}
	for _, it := range s.items {
		if it.UserID == uid {
			it.Product = s.products[it.ProductID]
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *stubRepo) Upsert(_ context.Context, uid, pid string, quantity int) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	for i := range s.items {
		if s.items[i].UserID == uid && s.items[i].ProductID == pid {
			s.items[i].Quantity += quantity
			return nil
		}
	}
	s.items = append(s.items, domain.CartItem{ID: itemID, UserID: uid, ProductID: pid, Quantity: quantity})
	return nil
}

func (s *stubRepo) SetQuantity(_ context.Context, uid, id string, quantity int) error {
	for i := range s.items {
		if s.items[i].UserID == uid && s.items[i].ID == id {
			s.items[i].Quantity = quantity
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *stubRepo) Delete(_ context.Context, uid, id string) error {
	s.lastDelete = id
	for i := range s.items {
		if s.items[i].UserID == uid && s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *stubRepo) DeleteByUser(_ context.Context, uid string) error {
	kept := s.items[:0]
	for _, it := range s.items {
		if it.UserID != uid {
			kept = append(kept, it)
		}
	}
	s.items = kept
	return nil
}

type stubProducts struct {
	products map[string]*domain.Product
}

func (s stubProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

type countingPublisher struct {
	count int
}

func (p *countingPublisher) Publish(_ context.Context, e events.Event) {
	if e.Topic == events.TopicCartChanged {
		p.count++
	}
}

func newFixture() (*Service, *stubRepo, *countingPublisher) {
	products := map[string]*domain.Product{
		productID: {ID: productID, Name: "Stracciatella", Price: decimal.RequireFromString("3.25"), Available: true},
	}
	repo := &stubRepo{products: products}
	pub := &countingPublisher{}
	return New(repo, stubProducts{products: products}, pub, nil), repo, pub
}

func TestFetch_NoUserSkipsRepository(t *testing.T) {
	svc, repo, _ := newFixture()
	c, err := svc.Fetch(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.listCalls != 0 {
		t.Fatalf("expected no repository read, got %d", repo.listCalls)
	}
	if c.Count != 0 || !c.Total.IsZero() || len(c.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", c)
	}
}

func TestAdd_MergesQuantity(t *testing.T) {
	svc, repo, pub := newFixture()
	ctx := context.Background()

	if _, err := svc.Add(ctx, userID, productID, 1); err != nil {
		t.Fatalf("first add: %v", err)
	}
	c, err := svc.Add(ctx, userID, productID, 2)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected a single row, got %d", len(repo.items))
	}
	if c.Count != 3 {
		t.Fatalf("expected count 3, got %d", c.Count)
	}
	if c.Total.StringFixed(2) != "9.75" {
		t.Fatalf("expected total 9.75, got %s", c.Total.StringFixed(2))
	}
	if pub.count != 2 {
		t.Fatalf("expected 2 cart.changed events, got %d", pub.count)
	}
}

func TestAdd_Preconditions(t *testing.T) {
	svc, repo, _ := newFixture()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "", productID, 1); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.Add(ctx, userID, productID, 0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.Add(ctx, userID, "not-a-uuid", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
	if _, err := svc.Add(ctx, userID, "6f1c2d3e-0000-4000-8000-0000000000ff", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown product, got %v", err)
	}
	repo.products[productID].Available = false
	if _, err := svc.Add(ctx, userID, productID, 1); !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("expected ErrProductUnavailable, got %v", err)
	}
	if len(repo.items) != 0 {
		t.Fatalf("expected no writes, got %d rows", len(repo.items))
	}
}

func TestQuantityAboveCapIsValidationError(t *testing.T) {
	svc, repo, _ := newFixture()
	ctx := context.Background()

	if _, err := svc.Add(ctx, userID, productID, 3_000_000_000); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation on add, got %v", err)
	}
	if _, err := svc.Add(ctx, userID, productID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.UpdateQuantity(ctx, userID, itemID, domain.MaxItemQuantity+1); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation on update, got %v", err)
	}
	if repo.items[0].Quantity != 1 {
		t.Fatalf("expected quantity unchanged, got %d", repo.items[0].Quantity)
	}
}

func TestUpdateQuantity_BelowOneRemoves(t *testing.T) {
	svc, repo, _ := newFixture()
	ctx := context.Background()
	if _, err := svc.Add(ctx, userID, productID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	c, err := svc.UpdateQuantity(ctx, userID, itemID, 5)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if c.Count != 5 {
		t.Fatalf("expected count 5, got %d", c.Count)
	}

	c, err = svc.UpdateQuantity(ctx, userID, itemID, 0)
	if err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if repo.lastDelete != itemID {
		t.Fatalf("expected delete of %s, got %q", itemID, repo.lastDelete)
	}
	if !c.IsEmpty() || !c.Total.IsZero() {
		t.Fatalf("expected empty cart, got %+v", c)
	}
}

func TestTotals_IgnoreMissingProducts(t *testing.T) {
	svc, repo, _ := newFixture()
	ctx := context.Background()
	repo.items = []domain.CartItem{
		{ID: itemID, UserID: userID, ProductID: productID, Quantity: 2},
		{ID: "gone", UserID: userID, ProductID: "deleted-product", Quantity: 4},
	}

	c, err := svc.Fetch(ctx, userID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if c.Count != 6 {
		t.Fatalf("expected count 6, got %d", c.Count)
	}
	if c.Total.StringFixed(2) != "6.50" {
		t.Fatalf("expected total 6.50, got %s", c.Total.StringFixed(2))
	}
}

func TestClear(t *testing.T) {
	svc, _, _ := newFixture()
	ctx := context.Background()
	if _, err := svc.Add(ctx, userID, productID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	c, err := svc.Clear(ctx, userID)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !c.IsEmpty() {
		t.Fatalf("expected empty cart, got %+v", c)
	}
	if _, err := svc.Clear(ctx, ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
