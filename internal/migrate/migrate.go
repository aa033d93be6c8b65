package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// Status describes the schema state recorded by golang-migrate.
type Status struct {
	Version uint
	Dirty   bool
	// Empty is set when no migration has ever been applied.
	Empty bool
}

// Apply runs all embedded migrations up and reports the resulting schema version.
func Apply(ctx context.Context, pool *pgxpool.Pool) (uint, error) {
	var version uint
	err := withMigrator(ctx, pool, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("migrate up: %w (every version needs both .up.sql and .down.sql)", err)
			}
			return fmt.Errorf("migrate up: %w", err)
		}
		st, err := status(m)
		if err != nil {
			return err
		}
		version = st.Version
		if st.Dirty {
			return fmt.Errorf("schema version %d is dirty", st.Version)
		}
		return nil
	})
	return version, err
}

// Rollback undoes the last steps migrations. steps must be positive.
func Rollback(ctx context.Context, pool *pgxpool.Pool, steps int) (Status, error) {
	if steps < 1 {
		return Status{}, fmt.Errorf("rollback steps must be positive, got %d", steps)
	}
	var st Status
	err := withMigrator(ctx, pool, func(m *migrate.Migrate) error {
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrate down %d: %w", steps, err)
		}
		var err error
		st, err = status(m)
		return err
	})
	return st, err
}

// Current reports the schema version without changing it.
func Current(ctx context.Context, pool *pgxpool.Pool) (Status, error) {
	var st Status
	err := withMigrator(ctx, pool, func(m *migrate.Migrate) error {
		var err error
		st, err = status(m)
		return err
	})
	return st, err
}

func status(m *migrate.Migrate) (Status, error) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{Empty: true}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("read version: %w", err)
	}
	return Status{Version: version, Dirty: dirty}, nil
}

func withMigrator(ctx context.Context, pool *pgxpool.Pool, fn func(*migrate.Migrate) error) error {
	srcDriver, err := iofs.New(migrationsFS, "sql")
	if err != nil {
		return fmt.Errorf("init iofs: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	m, err := newMigrator(ctx, sqlDB, srcDriver)
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}

func newMigrator(ctx context.Context, sqlDB *sql.DB, src source.Driver) (*migrate.Migrate, error) {
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping sql db: %w", err)
	}
	dbDriver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("init db driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx", dbDriver)
	if err != nil {
		return nil, fmt.Errorf("init migrate: %w", err)
	}
	return m, nil
}
