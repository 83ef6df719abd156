package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fieldhouse/bracket/internal/config"
	"github.com/fieldhouse/bracket/internal/security"
)

type AuthHandler struct {
	admin  config.AdminConfig
	tokens *security.TokenService
}

func NewAuthHandler(admin config.AdminConfig, tokens *security.TokenService) *AuthHandler {
	return &AuthHandler{admin: admin, tokens: tokens}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login exchanges the single admin account's credentials for a signed
// bearer token, grounded on the original application's /auth/token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username != h.admin.Username || !security.CheckPassword(h.admin.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.tokens.IssueAdminToken(req.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	json.NewEncoder(w).Encode(loginResponse{AccessToken: token})
}
