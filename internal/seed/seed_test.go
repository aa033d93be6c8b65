package seed

import (
	"context"
	"testing"

	"gelataria/internal/dbtest"
	"gelataria/internal/domain"
	userrepo "gelataria/internal/repository/user"
	"golang.org/x/crypto/bcrypt"
)

func TestApply_IsIdempotent(t *testing.T) {
	pool := dbtest.Pool(t)
	ctx := context.Background()
	admin := Admin{Email: "ops@gelataria.local", Password: "sorvete"}

	for i := 0; i < 2; i++ {
		if err := Apply(ctx, pool, admin, nil); err != nil {
			t.Fatalf("apply run %d: %v", i+1, err)
		}
	}

	var productCount, categoryCount, adminCount int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&productCount); err != nil {
		t.Fatalf("count products: %v", err)
	}
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM categories`).Scan(&categoryCount); err != nil {
		t.Fatalf("count categories: %v", err)
	}
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM user_roles WHERE role = $1`, domain.RoleAdmin).Scan(&adminCount); err != nil {
		t.Fatalf("count admins: %v", err)
	}
	if productCount != len(products) || categoryCount != len(categories) || adminCount != 1 {
		t.Fatalf("unexpected counts products=%d categories=%d admins=%d", productCount, categoryCount, adminCount)
	}

	u, err := userrepo.NewPostgres(pool, nil).GetByEmail(ctx, admin.Email)
	if err != nil {
		t.Fatalf("get admin: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(admin.Password)); err != nil {
		t.Fatalf("admin password not hashed with bcrypt: %v", err)
	}
}

func TestApply_SkipsAdminWithoutPassword(t *testing.T) {
	pool := dbtest.Pool(t)
	ctx := context.Background()
	if err := Apply(ctx, pool, Admin{Email: "ops@gelataria.local"}, nil); err != nil {
		t.Fatalf("apply: %v", err)
	}
	var users int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&users); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users != 0 {
		t.Fatalf("expected no users, got %d", users)
	}
}
