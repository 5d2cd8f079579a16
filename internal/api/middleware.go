package api

import (
	"context"
	"net"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/safar/makeup-inventory/internal/auth"
	"github.com/safar/makeup-inventory/internal/models"
)

type contextKey string

const claimsCtxKey contextKey = "claims"

// authenticator requires a valid, unrevoked session token and puts its
// claims into the request context.
func authenticator(revoked *auth.Revocations) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claimsMap, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				respondError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			claims, err := auth.ClaimsFromMap(claimsMap)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
				return
			}
			if revoked.IsRevoked(claims.SessionID) {
				respondError(w, http.StatusUnauthorized, "Session has ended")
				return
			}

			ctx := context.WithValue(r.Context(), claimsCtxKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(r.Context())
		if !ok || claims.Role != models.RoleAdmin {
			respondError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsCtxKey).(*auth.Claims)
	return claims, ok
}

// clientKey identifies the caller for login lockout. Only the connection's
// own address counts; forwarding headers are client-controlled.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
