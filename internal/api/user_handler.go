package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/safar/makeup-inventory/internal/auth"
	"github.com/safar/makeup-inventory/internal/models"
)

// UserHandler is the admin's employee management.
type UserHandler struct {
	credentials *auth.Credentials
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Use(adminOnly)

	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type userRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (req userRequest) role() models.Role {
	if req.Role == "" {
		return models.RoleEmployee
	}
	role, ok := models.ParseRole(req.Role)
	if !ok {
		return models.Role(req.Role)
	}
	return role
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.credentials.ListEmployees(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *UserHandler) create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.credentials.CreateUser(r.Context(), req.Username, req.Password, req.role())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// update leaves the password unchanged when none is sent.
func (h *UserHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.credentials.UpdateUser(r.Context(), id, req.Username, req.Password, req.role()); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, models.User{ID: id, Username: strings.TrimSpace(req.Username), Role: req.role()})
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	claims, _ := claimsFromContext(r.Context())
	if claims.UserID == id {
		respondError(w, http.StatusConflict, "Cannot delete your own account")
		return
	}

	if err := h.credentials.DeleteUser(r.Context(), id); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
