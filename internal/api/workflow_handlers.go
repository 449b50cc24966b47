/**
 * @description
 * HTTP handler for the workflow engine's reminder callback. The engine posts
 * the subscription id it was dispatched with; the reminder service decides
 * what is due and sends the emails.
 */
package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// ReminderProcessor handles one reminder callback for a subscription.
type ReminderProcessor interface {
	ProcessReminders(ctx context.Context, subscriptionID string) error
}

// WorkflowHandler holds the reminder service.
type WorkflowHandler struct {
	service ReminderProcessor
}

// NewWorkflowHandler creates a new handler for the workflow callback endpoint.
func NewWorkflowHandler(service ReminderProcessor) *WorkflowHandler {
	return &WorkflowHandler{service: service}
}

// handleReminders processes one reminder callback.
func (h *WorkflowHandler) handleReminders(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SubscriptionID string `json:"subscriptionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.ProcessReminders(r.Context(), req.SubscriptionID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, "Reminders processed", nil)
}
