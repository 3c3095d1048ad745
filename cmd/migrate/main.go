package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Rrens/ai-debate/internal/config"
	"github.com/Rrens/ai-debate/internal/repository/postgres"
	"github.com/Rrens/ai-debate/internal/repository/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fail("failed to load config: %v", err)
	}

	switch cfg.Database.Driver {
	case "postgres":
		fmt.Printf("Migrating postgres at %s:%d...\n", cfg.Database.Host, cfg.Database.Port)
		if err := postgres.RunMigrations(cfg.Database.DSN()); err != nil {
			fail("migration failed: %v", err)
		}
	default:
		fmt.Printf("Migrating sqlite at %s...\n", cfg.Database.Path)
		db, err := sqlite.Open(context.Background(), cfg.Database.Path)
		if err != nil {
			fail("failed to open database: %v", err)
		}
		defer db.Close()
		if err := db.Migrate(); err != nil {
			fail("migration failed: %v", err)
		}
	}

	fmt.Println("Migrations applied")
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
