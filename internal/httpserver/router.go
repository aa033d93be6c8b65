package httpserver

import (
	"context"
	"errors"
	"log"
	"time"

	"gelataria/internal/domain"
	checkoutsvc "gelataria/internal/service/checkout"
	favoritesvc "gelataria/internal/service/favorite"
	productsvc "gelataria/internal/service/product"
	profilesvc "gelataria/internal/service/profile"
	sessionsvc "gelataria/internal/service/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type SessionService interface {
	SignUp(ctx context.Context, in sessionsvc.SignUpInput) (*domain.User, error)
	SignIn(ctx context.Context, in sessionsvc.SignInInput) (*sessionsvc.Session, error)
	SignOut(ctx context.Context, token string) error
	Lookup(ctx context.Context, token string) (domain.Identity, error)
}

type ProductService interface {
	List(ctx context.Context, in productsvc.ListInput) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type CartService interface {
	Fetch(ctx context.Context, userID string) (domain.Cart, error)
	Add(ctx context.Context, userID, productID string, quantity int) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (domain.Cart, error)
	Remove(ctx context.Context, userID, itemID string) (domain.Cart, error)
	Clear(ctx context.Context, userID string) (domain.Cart, error)
}

type CheckoutService interface {
	Prepare(ctx context.Context, userID string) (*checkoutsvc.Preparation, error)
	Submit(ctx context.Context, userID string, form checkoutsvc.Form) (*checkoutsvc.Result, error)
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, userID string, in profilesvc.UpdateInput) (*domain.Profile, error)
	Orders(ctx context.Context, userID string) ([]domain.Order, error)
}

type FavoriteService interface {
	Toggle(ctx context.Context, userID, productID string) (favoritesvc.ToggleResult, error)
	List(ctx context.Context, userID string) ([]domain.Favorite, error)
	Remove(ctx context.Context, userID, id string) error
}

type OrderService interface {
	List(ctx context.Context, filter string) ([]domain.Order, error)
	Stats(ctx context.Context) (domain.OrderStats, error)
	SetStatus(ctx context.Context, orderID, status string) (*domain.Order, error)
}

// Deps holds the services the router dispatches to.
type Deps struct {
	SessionSvc  SessionService
	ProductSvc  ProductService
	CategorySvc CategoryService
	CartSvc     CartService
	CheckoutSvc CheckoutService
	ProfileSvc  ProfileService
	FavoriteSvc FavoriteService
	OrderSvc    OrderService
}

func (d Deps) validate() error {
	switch {
	case d.SessionSvc == nil:
		return errors.New("session service is required")
	case d.ProductSvc == nil:
		return errors.New("product service is required")
	case d.CategorySvc == nil:
		return errors.New("category service is required")
	case d.CartSvc == nil:
		return errors.New("cart service is required")
	case d.CheckoutSvc == nil:
		return errors.New("checkout service is required")
	case d.ProfileSvc == nil:
		return errors.New("profile service is required")
	case d.FavoriteSvc == nil:
		return errors.New("favorite service is required")
	case d.OrderSvc == nil:
		return errors.New("order service is required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db Pinger, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(corsOrigins)))
	router.Use(identityMiddleware(deps.SessionSvc, logger))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	auth := router.Group("/auth")
	auth.POST("/signup", signUpHandler(deps.SessionSvc, logger))
	auth.POST("/signin", signInHandler(deps.SessionSvc, logger))
	auth.POST("/signout", signOutHandler(deps.SessionSvc, logger))
	auth.GET("/session", requireUser(), sessionHandler)

	router.GET("/products", listProductsHandler(deps.ProductSvc, logger))
	router.GET("/products/:id", getProductHandler(deps.ProductSvc, logger))
	router.GET("/categories", listCategoriesHandler(deps.CategorySvc, logger))

	cart := router.Group("/cart", requireUser())
	cart.GET("", getCartHandler(deps.CartSvc, logger))
	cart.POST("/items", addCartItemHandler(deps.CartSvc, logger))
	cart.PATCH("/items/:id", updateCartItemHandler(deps.CartSvc, logger))
	cart.DELETE("/items/:id", removeCartItemHandler(deps.CartSvc, logger))
	cart.DELETE("", clearCartHandler(deps.CartSvc, logger))

	checkout := router.Group("/checkout", requireUser())
	checkout.GET("", prepareCheckoutHandler(deps.CheckoutSvc, logger))
	checkout.POST("", submitCheckoutHandler(deps.CheckoutSvc, logger))

	profile := router.Group("/profile", requireUser())
	profile.GET("", getProfileHandler(deps.ProfileSvc, logger))
	profile.PUT("", updateProfileHandler(deps.ProfileSvc, logger))
	profile.GET("/orders", profileOrdersHandler(deps.ProfileSvc, logger))

	favorites := router.Group("/favorites", requireUser())
	favorites.GET("", listFavoritesHandler(deps.FavoriteSvc, logger))
	favorites.POST("/:productId/toggle", toggleFavoriteHandler(deps.FavoriteSvc, logger))
	favorites.DELETE("/:id", removeFavoriteHandler(deps.FavoriteSvc, logger))

	admin := router.Group("/admin", requireUser(), requireAdmin())
	admin.GET("/orders", listOrdersHandler(deps.OrderSvc, logger))
	admin.GET("/orders/stats", orderStatsHandler(deps.OrderSvc, logger))
	admin.PATCH("/orders/:id/status", setOrderStatusHandler(deps.OrderSvc, logger))

	router.NoRoute(notFoundHandler)
	router.NoMethod(methodNotAllowedHandler)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
