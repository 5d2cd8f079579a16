package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/safar/makeup-inventory/internal/auth"
	"github.com/safar/makeup-inventory/internal/catalog"
	"github.com/safar/makeup-inventory/internal/database"
	"github.com/safar/makeup-inventory/internal/inventory"
	"github.com/safar/makeup-inventory/internal/transfer"
	"github.com/safar/makeup-inventory/internal/validation"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondErr maps err to a status code. Unexpected errors are logged and
// the client only sees a generic message.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		respondError(w, status, "operation failed")
		return
	}
	respondError(w, status, err.Error())
}

func statusFromError(err error) int {
	var (
		validationErr *validation.ValidationError
		duplicateErr  *validation.DuplicateError
		tooLarge      *http.MaxBytesError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr),
		errors.Is(err, catalog.ErrInvalidMinPrice),
		errors.Is(err, catalog.ErrInvalidMaxPrice),
		errors.Is(err, catalog.ErrPriceRange),
		errors.Is(err, auth.ErrEmptyCredentials),
		errors.Is(err, auth.ErrEmptyUsername),
		errors.Is(err, auth.ErrInvalidRole),
		errors.Is(err, auth.ErrPasswordTooLong):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &duplicateErr),
		errors.Is(err, database.ErrUsernameTaken),
		errors.Is(err, database.ErrDuplicateProduct),
		errors.Is(err, inventory.ErrNothingToUndo),
		errors.Is(err, auth.ErrSessionClosed):
		return http.StatusConflict
	case errors.Is(err, database.ErrProductNotFound),
		errors.Is(err, database.ErrUserNotFound),
		errors.Is(err, transfer.ErrNoLog),
		errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrLocked):
		return http.StatusLocked
	}
	return http.StatusInternalServerError
}
