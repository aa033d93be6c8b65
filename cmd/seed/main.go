package main

import (
	"context"
	"flag"
	"log"
	"os"

	"gelataria/internal/config"
	"gelataria/internal/db"
	"gelataria/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	adminEmail := flag.String("admin-email", cfg.SeedAdminEmail, "email of the operator account (overrides SEED_ADMIN_EMAIL)")
	flag.Parse()

	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBOptions(logger))
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	admin := seed.Admin{Email: *adminEmail, Password: cfg.SeedAdminPassword}
	if err := seed.Apply(ctx, pool, admin, logger); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}
