// Package dbtest connects integration tests to the Postgres named by
// TEST_DB_DSN. Tests are skipped when the variable is unset.
package dbtest

import (
	"context"
	"os"
	"testing"

	"gelataria/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool returns a migrated, truncated pool closed at test cleanup.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("ping db: %v", err)
	}
	if _, err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE favorites, order_items, orders, cart_items, products, categories, profiles, sessions, user_roles, users CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return pool
}

// InsertUser creates a user row and returns its id.
func InsertUser(t *testing.T, pool *pgxpool.Pool, email string) string {
	t.Helper()
	var id string
	if err := pool.QueryRow(context.Background(),
		`INSERT INTO users (email, password_hash) VALUES ($1, 'x') RETURNING id::text`, email,
	).Scan(&id); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

// InsertProduct creates a product row priced at price and returns its id.
func InsertProduct(t *testing.T, pool *pgxpool.Pool, slug, name, price string) string {
	t.Helper()
	var id string
	if err := pool.QueryRow(context.Background(),
		`INSERT INTO products (slug, name, price) VALUES ($1, $2, $3::numeric) RETURNING id::text`, slug, name, price,
	).Scan(&id); err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}
