/**
 * @description
 * This file contains the JSON response helpers shared by all handlers,
 * including the mapping from domain error kinds to HTTP status codes.
 */
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/subtrackr/subscription-api/internal/domain"
)

// envelope is the response shape every endpoint returns.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// respondWithJSON writes a success envelope.
func respondWithJSON(w http.ResponseWriter, code int, message string, data any) {
	response, err := json.Marshal(envelope{Success: true, Message: message, Data: data})
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithError translates a domain error into an HTTP status and writes
// a failure envelope.
func respondWithError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError

	var validationErr *domain.ValidationError
	var dependencyErr *domain.DependencyError
	switch {
	case errors.As(err, &validationErr):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrNotOwner), errors.Is(err, domain.ErrInvalidCredentials):
		code = http.StatusUnauthorized
	case errors.Is(err, domain.ErrEmailTaken):
		code = http.StatusConflict
	case errors.As(err, &dependencyErr):
		code = http.StatusBadGateway
	}

	response, marshalErr := json.Marshal(envelope{Success: false, Message: err.Error()})
	if marshalErr != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
