package product

import (
	"context"
	"errors"
	"io"
	"log"

	"gelataria/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id::text, slug, name, COALESCE(description, ''), price, COALESCE(image_url, ''), category_id::text, available, featured, allergens, created_at`

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

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.Product, error) {
	q := `
SELECT ` + productColumns + `
FROM products
WHERE ($1 = '' OR category_id = NULLIF($1, '')::uuid)
  AND (NOT $2 OR available)
  AND (NOT $3 OR featured)
ORDER BY featured DESC, name ASC
`
	rows, err := r.pool.Query(ctx, q, f.CategoryID, f.AvailableOnly, f.FeaturedOnly)
	if err != nil {
		r.logger.Printf("product repo: list category_id=%s error=%v", f.CategoryID, err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	allergens := p.Allergens
	if allergens == nil {
		allergens = []string{}
	}
	q := `
INSERT INTO products (slug, name, description, price, image_url, category_id, available, featured, allergens)
VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6::uuid, $7, $8, $9)
ON CONFLICT (slug) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    image_url = EXCLUDED.image_url,
    category_id = EXCLUDED.category_id,
    available = EXCLUDED.available,
    featured = EXCLUDED.featured,
    allergens = EXCLUDED.allergens
RETURNING ` + productColumns
	out, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.Slug,
		p.Name,
		p.Description,
		p.Price,
		p.ImageURL,
		p.CategoryID,
		p.Available,
		p.Featured,
		allergens,
	))
	if err != nil {
		r.logger.Printf("product repo: upsert slug=%s error=%v", p.Slug, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted slug=%s id=%s", out.Slug, out.ID)
	return out, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
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
	return &p, nil
}
