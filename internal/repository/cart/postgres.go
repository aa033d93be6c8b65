package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gelataria/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	const q = `
SELECT ci.id::text, ci.user_id::text, ci.product_id::text, ci.quantity, ci.created_at,
       p.id::text, p.slug, p.name, p.description, p.price, p.image_url, p.category_id::text,
       p.available, p.featured, p.allergens, p.created_at
FROM cart_items ci
LEFT JOIN products p ON p.id = ci.product_id
WHERE ci.user_id = $1
ORDER BY ci.created_at ASC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Printf("cart repo: list user_id=%s error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		var (
			item domain.CartItem
			p    joinedProduct
		)
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.Quantity,
			&item.CreatedAt,
			&p.ID,
			&p.Slug,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.ImageURL,
			&p.CategoryID,
			&p.Available,
			&p.Featured,
			&p.Allergens,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		item.Product = p.toDomain()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, userID, productID string, quantity int) error {
	const q = `
INSERT INTO cart_items (user_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, product_id) DO UPDATE
SET quantity = cart_items.quantity + EXCLUDED.quantity
WHERE cart_items.quantity + EXCLUDED.quantity <= $4
`
	cmd, err := r.pool.Exec(ctx, q, userID, productID, quantity, domain.MaxItemQuantity)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.ErrNotFound
		}
		r.logger.Printf("cart repo: upsert user_id=%s product_id=%s error=%v", userID, productID, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("quantity would exceed %d: %w", domain.MaxItemQuantity, domain.ErrValidation)
	}
	return nil
}

func (r *postgresRepo) SetQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE cart_items
SET quantity = $1
WHERE id = $2 AND user_id = $3
`, quantity, itemID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, userID, itemID string) error {
	cmd, err := r.pool.Exec(ctx, `
DELETE FROM cart_items
WHERE id = $1 AND user_id = $2
`, itemID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}

// joinedProduct holds the nullable side of a LEFT JOIN on products.
type joinedProduct struct {
	ID          *string
	Slug        *string
	Name        *string
	Description *string
	Price       decimal.NullDecimal
	ImageURL    *string
	CategoryID  *string
	Available   *bool
	Featured    *bool
	Allergens   []string
	CreatedAt   *time.Time
}

func (p joinedProduct) toDomain() *domain.Product {
	if p.ID == nil {
		return nil
	}
	out := &domain.Product{
		ID:          *p.ID,
		Slug:        deref(p.Slug),
		Name:        deref(p.Name),
		Description: deref(p.Description),
		ImageURL:    deref(p.ImageURL),
		CategoryID:  p.CategoryID,
		Allergens:   p.Allergens,
	}
	if p.Price.Valid {
		out.Price = p.Price.Decimal
	}
	if p.Available != nil {
		out.Available = *p.Available
	}
	if p.Featured != nil {
		out.Featured = *p.Featured
	}
	if p.CreatedAt != nil {
		out.CreatedAt = *p.CreatedAt
	}
	if out.Allergens == nil {
		out.Allergens = []string{}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
