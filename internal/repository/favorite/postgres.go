package favorite

import (
	"context"
	"errors"
	"io"
	"log"

	"gelataria/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
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

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	rows, err := r.pool.Query(ctx, `
SELECT f.id::text, f.user_id::text, f.product_id::text, f.created_at,
       p.id::text, p.slug, p.name, COALESCE(p.description, ''), p.price, COALESCE(p.image_url, ''),
       p.category_id::text, p.available, p.featured, p.allergens, p.created_at
FROM favorites f
JOIN products p ON p.id = f.product_id
WHERE f.user_id = $1
ORDER BY f.created_at DESC
`, userID)
	if err != nil {
		r.logger.Printf("favorite repo: list user_id=%s error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	out := []domain.Favorite{}
	for rows.Next() {
		var (
			f domain.Favorite
			p domain.Product
		)
		if err := rows.Scan(
			&f.ID,
			&f.UserID,
			&f.ProductID,
			&f.CreatedAt,
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
		if p.Allergens == nil {
			p.Allergens = []string{}
		}
		f.Product = &p
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Find(ctx context.Context, userID, productID string) (*domain.Favorite, error) {
	var f domain.Favorite
	err := r.pool.QueryRow(ctx, `
SELECT id::text, user_id::text, product_id::text, created_at
FROM favorites
WHERE user_id = $1 AND product_id = $2
`, userID, productID).Scan(&f.ID, &f.UserID, &f.ProductID, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *postgresRepo) Create(ctx context.Context, userID, productID string) (*domain.Favorite, error) {
	var f domain.Favorite
	err := r.pool.QueryRow(ctx, `
INSERT INTO favorites (user_id, product_id)
VALUES ($1, $2)
RETURNING id::text, user_id::text, product_id::text, created_at
`, userID, productID).Scan(&f.ID, &f.UserID, &f.ProductID, &f.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, domain.ErrAlreadyExists
			case "23503":
				return nil, domain.ErrNotFound
			}
		}
		r.logger.Printf("favorite repo: create user_id=%s product_id=%s error=%v", userID, productID, err)
		return nil, err
	}
	return &f, nil
}

func (r *postgresRepo) Delete(ctx context.Context, userID, id string) error {
	cmd, err := r.pool.Exec(ctx, `
DELETE FROM favorites
WHERE id = $1 AND user_id = $2
`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
