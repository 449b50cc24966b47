/**
 * @description
 * HTTP handlers for account registration and session endpoints.
 */
package api

import (
	"encoding/json"
	"net/http"

	"github.com/subtrackr/subscription-api/internal/app"
	"github.com/subtrackr/subscription-api/internal/domain"
)

// AuthHandler holds the auth service.
type AuthHandler struct {
	service *app.AuthService
}

// NewAuthHandler creates a new handler for the auth endpoints.
func NewAuthHandler(service *app.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// handleSignUp registers a new account and returns it with a session token.
func (h *AuthHandler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req domain.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.service.SignUp(r.Context(), req)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, "User created successfully", map[string]any{
		"token": token,
		"user":  user,
	})
}

// handleSignIn authenticates an account and returns a session token.
func (h *AuthHandler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req domain.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.service.SignIn(r.Context(), req)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "User signed in successfully", map[string]any{
		"token": token,
		"user":  user,
	})
}

// handleSignOut acknowledges a sign-out. Sessions are stateless bearer
// tokens, so the server has nothing to revoke; the client discards the token.
func (h *AuthHandler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, "User signed out successfully", nil)
}
