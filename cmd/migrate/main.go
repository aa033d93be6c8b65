package main

import (
	"context"
	"flag"
	"log"
	"os"

	"gelataria/internal/config"
	"gelataria/internal/db"
	"gelataria/internal/migrate"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of migrating up")
	showVersion := flag.Bool("version", false, "print the current schema version and exit")
	flag.Parse()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBOptions(logger))
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	switch {
	case *showVersion:
		st, err := migrate.Current(ctx, pool)
		if err != nil {
			logger.Fatalf("read schema version: %v", err)
		}
		logStatus(logger, st)
	case *down > 0:
		st, err := migrate.Rollback(ctx, pool, *down)
		if err != nil {
			logger.Fatalf("rollback migrations: %v", err)
		}
		logger.Printf("rolled back %d migration(s)", *down)
		logStatus(logger, st)
	default:
		version, err := migrate.Apply(ctx, pool)
		if err != nil {
			logger.Fatalf("apply migrations: %v", err)
		}
		logger.Printf("migrations applied, schema version %d", version)
	}
}

func logStatus(logger *log.Logger, st migrate.Status) {
	if st.Empty {
		logger.Println("schema is empty")
		return
	}
	logger.Printf("schema version %d dirty=%t", st.Version, st.Dirty)
}
