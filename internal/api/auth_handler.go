package api

import (
	"encoding/json"
	"net/http"

	"github.com/safar/makeup-inventory/internal/auth"
	"github.com/safar/makeup-inventory/internal/inventory"
	"github.com/safar/makeup-inventory/internal/models"
)

type AuthHandler struct {
	credentials       *auth.Credentials
	gate              *auth.Gate
	tokens            *auth.TokenIssuer
	workspaces        *inventory.Workspaces
	revoked           *auth.Revocations
	allowRegistration bool
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	*auth.SessionToken
	User *models.User `json:"user"`
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.gate.Login(r.Context(), clientKey(r), req.Username, req.Password)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{SessionToken: token, User: user})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	if !h.allowRegistration {
		respondError(w, http.StatusForbidden, "Registration is disabled")
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.credentials.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// logout ends the session: its token stops working and its workspace,
// including the undo snapshot, is discarded.
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	h.revoked.Revoke(claims.SessionID, claims.ExpiresAt)
	h.workspaces.Drop(claims.SessionID)

	w.WriteHeader(http.StatusNoContent)
}
