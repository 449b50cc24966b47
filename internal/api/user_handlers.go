package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/subtrackr/subscription-api/internal/app"
	"github.com/subtrackr/subscription-api/internal/domain"
)

// UserHandler holds the user service.
type UserHandler struct {
	service *app.UserService
}

// NewUserHandler creates a new handler for the user endpoints.
func NewUserHandler(service *app.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// handleList retrieves all registered users.
func (h *UserHandler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, "Users retrieved successfully", users)
}

// handleGet retrieves one user by id.
func (h *UserHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, "User retrieved successfully", user)
}

// handleUpdate applies a partial profile update.
func (h *UserHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, "User updated successfully", user)
}
