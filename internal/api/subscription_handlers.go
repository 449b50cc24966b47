/**
 * @description
 * This file contains the HTTP handlers for the subscription endpoints.
 * Handlers parse the request, resolve the acting user from the context
 * where the route requires one, call the service layer, and write the
 * response envelope.
 */
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/subtrackr/subscription-api/internal/app"
	"github.com/subtrackr/subscription-api/internal/domain"
)

// SubscriptionHandler holds the subscription service.
type SubscriptionHandler struct {
	service *app.SubscriptionService
}

// NewSubscriptionHandler creates a new handler for the subscription endpoints.
func NewSubscriptionHandler(service *app.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

// dateLayout is the calendar-date form accepted in request bodies alongside
// full RFC 3339 timestamps.
const dateLayout = "2006-01-02"

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(dateLayout, value)
}

type createSubscriptionRequest struct {
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	Frequency     string  `json:"frequency"`
	Category      string  `json:"category"`
	PaymentMethod string  `json:"paymentMethod"`
	Status        string  `json:"status"`
	StartDate     string  `json:"startDate"`
	RenewalDate   string  `json:"renewalDate"`
}

func (req *createSubscriptionRequest) toDomain() (*domain.Subscription, error) {
	sub := &domain.Subscription{
		Name:          req.Name,
		Price:         req.Price,
		Currency:      domain.Currency(req.Currency),
		Frequency:     domain.Frequency(req.Frequency),
		Category:      domain.Category(req.Category),
		PaymentMethod: req.PaymentMethod,
		Status:        domain.Status(req.Status),
	}
	if req.StartDate != "" {
		start, err := parseDate(req.StartDate)
		if err != nil {
			return nil, domain.NewValidationError("startDate", "must be a valid date")
		}
		sub.StartDate = start
	}
	if req.RenewalDate != "" {
		renewal, err := parseDate(req.RenewalDate)
		if err != nil {
			return nil, domain.NewValidationError("renewalDate", "must be a valid date")
		}
		sub.RenewalDate = renewal
	}
	return sub, nil
}

type updateSubscriptionRequest struct {
	Name          *string  `json:"name"`
	Price         *float64 `json:"price"`
	Currency      *string  `json:"currency"`
	Frequency     *string  `json:"frequency"`
	Category      *string  `json:"category"`
	PaymentMethod *string  `json:"paymentMethod"`
	Status        *string  `json:"status"`
	StartDate     *string  `json:"startDate"`
	RenewalDate   *string  `json:"renewalDate"`
}

func (req *updateSubscriptionRequest) toDomain() (*domain.UpdateSubscriptionRequest, error) {
	out := &domain.UpdateSubscriptionRequest{
		Name:          req.Name,
		Price:         req.Price,
		PaymentMethod: req.PaymentMethod,
	}
	if req.Currency != nil {
		c := domain.Currency(*req.Currency)
		out.Currency = &c
	}
	if req.Frequency != nil {
		f := domain.Frequency(*req.Frequency)
		out.Frequency = &f
	}
	if req.Category != nil {
		c := domain.Category(*req.Category)
		out.Category = &c
	}
	if req.Status != nil {
		s := domain.Status(*req.Status)
		out.Status = &s
	}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, domain.NewValidationError("startDate", "must be a valid date")
		}
		out.StartDate = &start
	}
	if req.RenewalDate != nil {
		renewal, err := parseDate(*req.RenewalDate)
		if err != nil {
			return nil, domain.NewValidationError("renewalDate", "must be a valid date")
		}
		out.RenewalDate = &renewal
	}
	return out, nil
}

// handleList handles the paginated global listing of subscriptions.
func (h *SubscriptionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	subs, pagination, err := h.service.List(r.Context(), page, limit)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "Subscriptions retrieved successfully", map[string]any{
		"subscriptions": subs,
		"pagination":    pagination,
	})
}

// handleGet handles the lookup of a single subscription by id.
func (h *SubscriptionHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	sub, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, "Subscription retrieved successfully", sub)
}

// handleCreate handles subscription creation. The owner is always the
// authenticated caller; the response carries the workflow run id alongside
// the created record.
func (h *SubscriptionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	sub, err := req.toDomain()
	if err != nil {
		respondWithError(w, err)
		return
	}

	created, runID, err := h.service.Create(r.Context(), userID, sub)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, "Subscription created successfully", map[string]any{
		"subscription":  created,
		"workflowRunId": runID,
	})
}

// handleUpdate handles a partial update of an owned subscription.
func (h *SubscriptionHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req updateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	update, err := req.toDomain()
	if err != nil {
		respondWithError(w, err)
		return
	}

	updated, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), update)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, "Subscription updated successfully", updated)
}

// handleCancel handles the terminal cancellation transition.
func (h *SubscriptionHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cancelled, err := h.service.Cancel(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, "Subscription cancelled successfully", cancelled)
}

// handleDelete handles subscription removal.
func (h *SubscriptionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, "Subscription deleted successfully", deleted)
}

// handleListByUser handles listing the subscriptions of one user. The acting
// user must equal the requested path user.
func (h *SubscriptionHandler) handleListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	subs, err := h.service.ListByUser(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, "Subscriptions retrieved successfully", subs)
}

// handleUpcoming handles the 7-day upcoming-renewals listing.
func (h *SubscriptionHandler) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	subs, err := h.service.Upcoming(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, "Upcoming renewals retrieved successfully", subs)
}
