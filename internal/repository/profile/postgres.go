package profile

import (
	"context"
	"errors"
	"io"
	"log"

	"gelataria/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileColumns = `user_id::text, full_name, phone, address, city, postal_code, updated_at`

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

func (r *postgresRepo) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx, `
SELECT `+profileColumns+`
FROM profiles
WHERE user_id = $1
`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("profile repo: get user_id=%s error=%v", userID, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	out, err := scanProfile(r.pool.QueryRow(ctx, `
INSERT INTO profiles (user_id, full_name, phone, address, city, postal_code, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
ON CONFLICT (user_id) DO UPDATE SET
    full_name = EXCLUDED.full_name,
    phone = EXCLUDED.phone,
    address = EXCLUDED.address,
    city = EXCLUDED.city,
    postal_code = EXCLUDED.postal_code,
    updated_at = now()
RETURNING `+profileColumns,
		p.UserID, p.FullName, p.Phone, p.Address, p.City, p.PostalCode,
	))
	if err != nil {
		r.logger.Printf("profile repo: upsert user_id=%s error=%v", p.UserID, err)
		return nil, err
	}
	return out, nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	if err := row.Scan(
		&p.UserID,
		&p.FullName,
		&p.Phone,
		&p.Address,
		&p.City,
		&p.PostalCode,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
