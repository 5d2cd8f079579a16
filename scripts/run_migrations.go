package main

import (
	"context"
	"log"
	"os"

	"github.com/safar/makeup-inventory/internal/config"
	"github.com/safar/makeup-inventory/internal/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/run_migrations.go [up|down]")
	}

	direction := os.Args[1]
	if direction != database.MigrateUp && direction != database.MigrateDown {
		log.Fatal("Direction must be 'up' or 'down'")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	driver := cfg.Database.Driver()
	files, err := database.MigrationFiles(driver, direction)
	if err != nil {
		log.Fatalf("List migrations: %v", err)
	}
	for _, f := range files {
		log.Printf("Running migration: %s", f)
	}

	n, err := database.Migrate(context.Background(), db, driver, direction)
	if err != nil {
		log.Fatalf("Migrate: %v", err)
	}

	log.Printf("Successfully ran %d migration(s) %s", n, direction)
}
