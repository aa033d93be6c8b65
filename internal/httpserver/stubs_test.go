package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gelataria/internal/domain"
	checkoutsvc "gelataria/internal/service/checkout"
	favoritesvc "gelataria/internal/service/favorite"
	productsvc "gelataria/internal/service/product"
	profilesvc "gelataria/internal/service/profile"
	sessionsvc "gelataria/internal/service/session"
	"github.com/gin-gonic/gin"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// stubSessionService resolves the token "user" to a customer and "admin" to
// an operator; anything else is invalid.
type stubSessionService struct {
	signUpErr  error
	signInErr  error
	lookupErr  error
	signedOut  []string
	lastSignUp sessionsvc.SignUpInput
}

var (
	customerIdentity = domain.Identity{User: domain.User{ID: "user-1", Email: "cliente@example.com"}}
	adminIdentity    = domain.Identity{User: domain.User{ID: "admin-1", Email: "admin@example.com"}, IsAdmin: true}
)

func (s *stubSessionService) SignUp(_ context.Context, in sessionsvc.SignUpInput) (*domain.User, error) {
	s.lastSignUp = in
	if s.signUpErr != nil {
		return nil, s.signUpErr
	}
	return &domain.User{ID: "user-new", Email: in.Email}, nil
}

func (s *stubSessionService) SignIn(_ context.Context, in sessionsvc.SignInInput) (*sessionsvc.Session, error) {
	if s.signInErr != nil {
		return nil, s.signInErr
	}
	return &sessionsvc.Session{User: domain.User{ID: "user-1", Email: in.Email}, AccessToken: "user"}, nil
}

func (s *stubSessionService) SignOut(_ context.Context, token string) error {
	s.signedOut = append(s.signedOut, token)
	return nil
}

func (s *stubSessionService) Lookup(_ context.Context, token string) (domain.Identity, error) {
	if s.lookupErr != nil {
		return domain.Identity{}, s.lookupErr
	}
	switch token {
	case "user":
		return customerIdentity, nil
	case "admin":
		return adminIdentity, nil
	}
	return domain.Identity{}, sessionsvc.ErrInvalidToken
}

type stubProductService struct {
	products []domain.Product
	lastIn   productsvc.ListInput
}

func (s *stubProductService) List(_ context.Context, in productsvc.ListInput) ([]domain.Product, error) {
	s.lastIn = in
	return s.products, nil
}

func (s *stubProductService) Get(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			clone := p
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

type stubCategoryService struct{}

func (s *stubCategoryService) List(_ context.Context) ([]domain.Category, error) {
	return []domain.Category{}, nil
}

type stubCartService struct {
	calls   int
	addErr  error
	lastQty int
}

func (s *stubCartService) Fetch(_ context.Context, userID string) (domain.Cart, error) {
	s.calls++
	return domain.NewCart(userID, nil), nil
}

func (s *stubCartService) Add(_ context.Context, userID, _ string, quantity int) (domain.Cart, error) {
	s.calls++
	s.lastQty = quantity
	if s.addErr != nil {
		return domain.Cart{}, s.addErr
	}
	return domain.NewCart(userID, []domain.CartItem{{ID: "item-1", Quantity: quantity}}), nil
}

func (s *stubCartService) UpdateQuantity(_ context.Context, userID, _ string, quantity int) (domain.Cart, error) {
	s.calls++
	s.lastQty = quantity
	return domain.NewCart(userID, nil), nil
}

func (s *stubCartService) Remove(_ context.Context, userID, _ string) (domain.Cart, error) {
	s.calls++
	return domain.NewCart(userID, nil), nil
}

func (s *stubCartService) Clear(_ context.Context, userID string) (domain.Cart, error) {
	s.calls++
	return domain.NewCart(userID, nil), nil
}

type stubCheckoutService struct {
	prepareErr error
	submitErr  error
}

func (s *stubCheckoutService) Prepare(_ context.Context, _ string) (*checkoutsvc.Preparation, error) {
	if s.prepareErr != nil {
		return nil, s.prepareErr
	}
	return &checkoutsvc.Preparation{}, nil
}

func (s *stubCheckoutService) Submit(_ context.Context, userID string, form checkoutsvc.Form) (*checkoutsvc.Result, error) {
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	o := domain.Order{ID: "abcdef12-0000-4000-8000-000000000000", UserID: userID, Status: domain.OrderPending}
	o.Delivery.City = form.City
	return &checkoutsvc.Result{Order: o, ShortRef: o.ShortRef()}, nil
}

type stubProfileService struct{}

func (s *stubProfileService) Get(_ context.Context, userID string) (*domain.Profile, error) {
	return &domain.Profile{UserID: userID}, nil
}

func (s *stubProfileService) Update(_ context.Context, userID string, in profilesvc.UpdateInput) (*domain.Profile, error) {
	return &domain.Profile{UserID: userID, FullName: in.FullName}, nil
}

func (s *stubProfileService) Orders(_ context.Context, _ string) ([]domain.Order, error) {
	return []domain.Order{}, nil
}

type stubFavoriteService struct{}

func (s *stubFavoriteService) Toggle(_ context.Context, _, productID string) (favoritesvc.ToggleResult, error) {
	return favoritesvc.ToggleResult{ProductID: productID, Favorited: true}, nil
}

func (s *stubFavoriteService) List(_ context.Context, _ string) ([]domain.Favorite, error) {
	return []domain.Favorite{}, nil
}

func (s *stubFavoriteService) Remove(_ context.Context, _, _ string) error {
	return nil
}

type stubOrderService struct {
	calls      int
	lastID     string
	lastStatus string
	lastFilter string
}

func (s *stubOrderService) List(_ context.Context, filter string) ([]domain.Order, error) {
	s.calls++
	s.lastFilter = filter
	return []domain.Order{{ID: "order-1", Status: domain.OrderPending}}, nil
}

func (s *stubOrderService) Stats(_ context.Context) (domain.OrderStats, error) {
	s.calls++
	return domain.OrderStats{Total: 3, Pending: 1, Preparing: 1, Ready: 1}, nil
}

func (s *stubOrderService) SetStatus(_ context.Context, orderID, status string) (*domain.Order, error) {
	s.calls++
	s.lastID = orderID
	s.lastStatus = status
	parsed, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	return &domain.Order{ID: orderID, Status: parsed}, nil
}

func stubDeps() Deps {
	return Deps{
		SessionSvc:  &stubSessionService{},
		ProductSvc:  &stubProductService{},
		CategorySvc: &stubCategoryService{},
		CartSvc:     &stubCartService{},
		CheckoutSvc: &stubCheckoutService{},
		ProfileSvc:  &stubProfileService{},
		FavoriteSvc: &stubFavoriteService{},
		OrderSvc:    &stubOrderService{},
	}
}

func newTestRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), nil, deps, nil)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func doRequest(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
