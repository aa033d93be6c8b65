package checkout

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"gelataria/internal/domain"
	"gelataria/internal/events"
	orderrepo "gelataria/internal/repository/order"
	"gelataria/internal/validation"
	"github.com/shopspring/decimal"
)

// fallbackProductName labels order lines whose product disappeared from the
// catalog between fetching the cart and placing the order.
const fallbackProductName = "Produto"

var (
	// ErrEmptyCart is returned when checkout is attempted without cart items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrOrderCreation wraps any storage failure while placing an order.
	ErrOrderCreation = errors.New("order creation failed")
)

type cartSource interface {
	Fetch(ctx context.Context, userID string) (domain.Cart, error)
}

type profileSource interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
}

type orderWriter interface {
	Place(ctx context.Context, in orderrepo.PlaceInput) (*domain.Order, error)
}

type Service struct {
	carts    cartSource
	profiles profileSource
	orders   orderWriter
	events   events.Publisher
	logger   *log.Logger
}

func New(carts cartSource, profiles profileSource, orders orderWriter, publisher events.Publisher, logger *log.Logger) *Service {
	if publisher == nil {
		publisher = events.Discard
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{carts: carts, profiles: profiles, orders: orders, events: publisher, logger: logger}
}

// Form is the delivery form submitted at checkout.
type Form struct {
	Phone      string `json:"phone" validate:"min=9,max=20" msg:"invalid phone number"`
	Address    string `json:"address" validate:"min=5,max=200" msg:"address is too short"`
	City       string `json:"city" validate:"min=2,max=100" msg:"invalid city"`
	PostalCode string `json:"postalCode" validate:"min=4,max=20" msg:"invalid postal code"`
	Notes      string `json:"notes" validate:"max=500" msg:"notes must be at most 500 characters"`
}

func (f Form) trimmed() Form {
	return Form{
		Phone:      strings.TrimSpace(f.Phone),
		Address:    strings.TrimSpace(f.Address),
		City:       strings.TrimSpace(f.City),
		PostalCode: strings.TrimSpace(f.PostalCode),
		Notes:      strings.TrimSpace(f.Notes),
	}
}

// Preparation is what the checkout screen renders before submitting.
type Preparation struct {
	Cart domain.Cart `json:"cart"`
	Form Form        `json:"form"`
}

// Result describes a placed order.
type Result struct {
	Order    domain.Order `json:"order"`
	ShortRef string       `json:"shortRef"`
}

// Prepare returns the cart with a delivery form prefilled from the profile.
func (s *Service) Prepare(ctx context.Context, userID string) (*Preparation, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	c, err := s.carts.Fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	out := &Preparation{Cart: c}
	p, err := s.profiles.Get(ctx, userID)
	switch {
	case err == nil:
		out.Form = Form{Phone: p.Phone, Address: p.Address, City: p.City, PostalCode: p.PostalCode}
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, err
	}
	return out, nil
}

// Submit validates the form and turns the user's cart into an order.
func (s *Service) Submit(ctx context.Context, userID string, form Form) (*Result, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	form = form.trimmed()
	if err := validation.Struct(form); err != nil {
		return nil, err
	}
	c, err := s.carts.Fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	delivery := domain.DeliveryDetails{
		Phone:      form.Phone,
		Address:    form.Address,
		City:       form.City,
		PostalCode: form.PostalCode,
	}
	if form.Notes != "" {
		notes := form.Notes
		delivery.Notes = &notes
	}

	placed, err := s.orders.Place(ctx, orderrepo.PlaceInput{
		UserID:   userID,
		Total:    c.Total,
		Delivery: delivery,
		Items:    orderItems(c.Items),
	})
	if err != nil {
		s.logger.Printf("checkout: place order user_id=%s items=%d error=%v", userID, len(c.Items), err)
		return nil, ErrOrderCreation
	}

	s.events.Publish(ctx, events.Event{
		Topic:   events.TopicOrderPlaced,
		Key:     placed.ID,
		Payload: placed,
	})
	// Place cleared the cart in the same transaction.
	s.events.Publish(ctx, events.Event{
		Topic:   events.TopicCartChanged,
		Key:     userID,
		Payload: map[string]interface{}{"count": 0, "total": decimal.Zero},
	})
	return &Result{Order: *placed, ShortRef: placed.ShortRef()}, nil
}

func orderItems(items []domain.CartItem) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		line := domain.OrderItem{
			ProductName: fallbackProductName,
			Quantity:    it.Quantity,
		}
		if it.Product != nil {
			productID := it.Product.ID
			line.ProductID = &productID
			line.ProductName = it.Product.Name
			line.UnitPrice = it.Product.Price
		}
		out = append(out, line)
	}
	return out
}
