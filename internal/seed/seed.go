package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"gelataria/internal/domain"
	categoryrepo "gelataria/internal/repository/category"
	productrepo "gelataria/internal/repository/product"
	userrepo "gelataria/internal/repository/user"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Admin describes the operator account created by the seed. An empty
// Password skips it.
type Admin struct {
	Email    string
	Password string
}

type productSeed struct {
	Slug        string
	Category    string
	Name        string
	Description string
	Price       string
	Featured    bool
	Allergens   []string
}

var categories = []domain.Category{
	{Slug: "cremosos", Name: "Cremosos", Description: "Milk-based gelato churned daily"},
	{Slug: "sorbets", Name: "Sorbets", Description: "Dairy-free fruit sorbets"},
	{Slug: "especiais", Name: "Especiais", Description: "Seasonal and house specials"},
}

var products = []productSeed{
	{Slug: "pistachio", Category: "cremosos", Name: "Pistachio", Description: "Sicilian pistachio", Price: "3.50", Featured: true, Allergens: []string{"milk", "nuts"}},
	{Slug: "stracciatella", Category: "cremosos", Name: "Stracciatella", Description: "Fior di latte with dark chocolate shavings", Price: "3.25", Allergens: []string{"milk"}},
	{Slug: "doce-de-leite", Category: "cremosos", Name: "Doce de Leite", Description: "Slow-cooked caramelised milk", Price: "3.25", Allergens: []string{"milk"}},
	{Slug: "lemon-sorbet", Category: "sorbets", Name: "Lemon Sorbet", Description: "Algarve lemons", Price: "2.80", Featured: true},
	{Slug: "mango-sorbet", Category: "sorbets", Name: "Mango Sorbet", Description: "Alphonso mango", Price: "2.95"},
	{Slug: "pastel-de-nata", Category: "especiais", Name: "Pastel de Nata", Description: "Custard gelato with puff pastry crumbs", Price: "3.90", Featured: true, Allergens: []string{"milk", "eggs", "gluten"}},
}

// Apply inserts demo catalog data and the admin account. It is idempotent:
// categories and products are upserted by slug and the admin is reused.
func Apply(ctx context.Context, pool *pgxpool.Pool, admin Admin, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	catRepo := categoryrepo.NewPostgres(pool, logger)
	prodRepo := productrepo.NewPostgres(pool, logger)

	ids := make(map[string]string, len(categories))
	for _, c := range categories {
		saved, err := catRepo.Upsert(ctx, c)
		if err != nil {
			return fmt.Errorf("upsert category %s: %w", c.Slug, err)
		}
		ids[c.Slug] = saved.ID
	}

	for _, p := range products {
		categoryID := ids[p.Category]
		if _, err := prodRepo.Upsert(ctx, domain.Product{
			Slug:        p.Slug,
			Name:        p.Name,
			Description: p.Description,
			Price:       decimal.RequireFromString(p.Price),
			CategoryID:  &categoryID,
			Available:   true,
			Featured:    p.Featured,
			Allergens:   p.Allergens,
		}); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}

	if admin.Password == "" {
		logger.Printf("seed: no admin password set, skipping admin account")
		return nil
	}
	if err := ensureAdmin(ctx, userrepo.NewPostgres(pool, logger), admin); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	return nil
}

func ensureAdmin(ctx context.Context, users userrepo.Repository, admin Admin) error {
	u, err := users.GetByEmail(ctx, admin.Email)
	if errors.Is(err, domain.ErrNotFound) {
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return hashErr
		}
		u, err = users.CreateWithProfile(ctx, domain.User{Email: admin.Email, PasswordHash: string(hashed)}, "Administrador")
	}
	if err != nil {
		return err
	}
	return users.GrantRole(ctx, u.ID, domain.RoleAdmin)
}
