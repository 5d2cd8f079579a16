package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/safar/makeup-inventory/internal/api"
	"github.com/safar/makeup-inventory/internal/auth"
	"github.com/safar/makeup-inventory/internal/config"
	"github.com/safar/makeup-inventory/internal/database"
	"github.com/safar/makeup-inventory/internal/inventory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to %s database successfully", cfg.Database.Driver())

	ctx := context.Background()

	if cfg.Database.AutoMigrate {
		n, err := database.Migrate(ctx, db, cfg.Database.Driver(), database.MigrateUp)
		if err != nil {
			log.Fatalf("Run migrations: %v", err)
		}
		log.Printf("Applied %d migration(s)", n)
	}

	if cfg.Auth.JWTSecret == "change-me" {
		log.Printf("Warning: JWT_SECRET is not set, using the built-in development secret")
	}

	creds := auth.NewCredentials(db)
	created, err := creds.EnsureAdmin(ctx, cfg.Auth.BootstrapUser, cfg.Auth.BootstrapPassword)
	if err != nil {
		log.Fatalf("Bootstrap admin: %v", err)
	}
	if created {
		log.Printf("Created admin account %q", cfg.Auth.BootstrapUser)
	}

	service := inventory.NewService(db, cfg.Files)
	router := api.NewRouter(api.Options{
		Credentials:       creds,
		Tokens:            auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Inventory:         service,
		Workspaces:        inventory.NewWorkspaces(service, cfg.Auth.TokenTTL),
		AllowRegistration: cfg.Auth.AllowRegistration,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
		return
	}
	log.Println("Server stopped")
}
