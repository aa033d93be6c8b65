package migrate

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := migrationsFS.ReadDir("sql")
	if err != nil {
		t.Fatalf("read embedded dir: %v", err)
	}
	seen := map[string]int{}
	for _, e := range entries {
		name := e.Name()
		for _, suffix := range []string{".up.sql", ".down.sql"} {
			if version, ok := strings.CutSuffix(name, suffix); ok {
				seen[version]++
			}
		}
	}
	if len(seen) == 0 {
		t.Fatalf("no migrations embedded")
	}
	for version, n := range seen {
		if n != 2 {
			t.Fatalf("migration %s needs both up and down files", version)
		}
	}
}

func TestRollback_RejectsNonPositiveSteps(t *testing.T) {
	if _, err := Rollback(context.Background(), nil, 0); err == nil {
		t.Fatalf("expected error for zero steps")
	}
}

func TestApplyAndCurrent(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	version, err := Apply(ctx, pool)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	st, err := Current(ctx, pool)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if st.Empty || st.Dirty || st.Version != version {
		t.Fatalf("unexpected status %+v after applying version %d", st, version)
	}
}
