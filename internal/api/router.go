// Package api exposes the inventory over JSON/HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/safar/makeup-inventory/internal/auth"
	"github.com/safar/makeup-inventory/internal/inventory"
)

type Options struct {
	Credentials       *auth.Credentials
	Tokens            *auth.TokenIssuer
	Inventory         *inventory.Service
	Workspaces        *inventory.Workspaces
	AllowRegistration bool
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Use(jwtauth.Verifier(opts.Tokens.JWTAuth()))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	revoked := auth.NewRevocations()

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := &AuthHandler{
			credentials:       opts.Credentials,
			gate:              auth.NewGate(opts.Credentials),
			tokens:            opts.Tokens,
			workspaces:        opts.Workspaces,
			revoked:           revoked,
			allowRegistration: opts.AllowRegistration,
		}
		v1.Post("/login", authHandler.login)
		v1.Post("/register", authHandler.register)

		v1.Group(func(private chi.Router) {
			private.Use(authenticator(revoked))

			private.Post("/logout", authHandler.logout)

			productHandler := &ProductHandler{service: opts.Inventory, workspaces: opts.Workspaces}
			private.Route("/products", productHandler.RegisterRoutes)

			userHandler := &UserHandler{credentials: opts.Credentials}
			private.Route("/users", userHandler.RegisterRoutes)
		})
	})

	return r
}
