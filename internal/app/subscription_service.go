/**
 * @description
 * This file contains the core business logic for subscription management.
 * The service layer is the only path to persistence: it forces the owner
 * binding from the authenticated caller, runs the invariant engine before
 * every write, gates mutations on ownership, and hands freshly created
 * subscriptions to the workflow dispatcher.
 */
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/subtrackr/subscription-api/internal/domain"
	"github.com/subtrackr/subscription-api/internal/store"
	"github.com/subtrackr/subscription-api/pkg/workflow"
)

// EventsExchange is the topic exchange subscription lifecycle events go to.
const EventsExchange = "subscription_events"

// UpcomingWindow is the fixed lookahead used by the upcoming-renewals query.
const UpcomingWindow = 7 * 24 * time.Hour

// SubscriptionRepository defines the storage operations the service needs.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error)
	FindByID(ctx context.Context, id string) (*domain.Subscription, error)
	FindByOwner(ctx context.Context, userID string) ([]domain.Subscription, error)
	List(ctx context.Context, page, limit int) ([]domain.Subscription, store.Pagination, error)
	Update(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error)
	Delete(ctx context.Context, id string) (*domain.Subscription, error)
	FindUpcoming(ctx context.Context, from, to time.Time) ([]domain.Subscription, error)
}

// WorkflowDispatcher starts a reminder workflow run at the external engine.
type WorkflowDispatcher interface {
	Trigger(ctx context.Context, trigger workflow.TriggerRequest) (*workflow.TriggerRun, error)
}

// EventPublisher publishes lifecycle events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body any) error
}

// SubscriptionService provides the business logic for subscriptions.
type SubscriptionService struct {
	repo        SubscriptionRepository
	dispatcher  WorkflowDispatcher
	events      EventPublisher
	callbackURL string
	logger      *slog.Logger
	now         func() time.Time
}

// NewSubscriptionService creates a new subscription service. events may be
// nil when no broker is configured; callbackURL is the reminder-workflow
// callback endpoint passed to the engine on every dispatch.
func NewSubscriptionService(
	repo SubscriptionRepository,
	dispatcher WorkflowDispatcher,
	events EventPublisher,
	callbackURL string,
	logger *slog.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		repo:        repo,
		dispatcher:  dispatcher,
		events:      events,
		callbackURL: callbackURL,
		logger:      logger,
		now:         time.Now,
	}
}

func parseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", domain.NewValidationError("id", "must be a valid UUID")
	}
	return parsed.String(), nil
}

// publishEvent sends a lifecycle event best-effort. A publish failure is
// logged and never fails the request that produced it.
func (s *SubscriptionService) publishEvent(ctx context.Context, routingKey string, sub *domain.Subscription, label string) {
	if s.events == nil {
		return
	}
	event := domain.SubscriptionEvent{
		SubscriptionID: sub.ID,
		UserID:         sub.UserID,
		Status:         sub.Status,
		Label:          label,
	}
	if err := s.events.Publish(ctx, EventsExchange, routingKey, event); err != nil {
		s.logger.Error("failed to publish lifecycle event",
			"routing_key", routingKey, "subscription_id", sub.ID, "error", err)
	}
}

// Create persists a new subscription owned by the acting user and dispatches
// a reminder workflow run for it. The owner binding always comes from the
// authenticated caller, never from the request body. Creation and dispatch
// are not transactional: if the dispatch fails the subscription stays
// persisted and the caller receives a dependency error.
func (s *SubscriptionService) Create(ctx context.Context, actingUserID string, sub *domain.Subscription) (*domain.Subscription, string, error) {
	sub.ID = ""
	sub.UserID = actingUserID

	if err := sub.Resolve(s.now()); err != nil {
		return nil, "", err
	}

	created, err := s.repo.Create(ctx, sub)
	if err != nil {
		return nil, "", err
	}
	s.publishEvent(ctx, domain.EventSubscriptionCreated, created, "")

	run, err := s.dispatcher.Trigger(ctx, workflow.TriggerRequest{
		URL:     s.callbackURL,
		Body:    map[string]string{"subscriptionId": created.ID},
		Headers: map[string]string{"content-type": "application/json"},
	})
	if err != nil {
		s.logger.Error("workflow dispatch failed after create",
			"subscription_id", created.ID, "error", err)
		return created, "", &domain.DependencyError{Collaborator: "workflow", Err: err}
	}

	return created, run.WorkflowRunID, nil
}

// Get retrieves a single subscription by id.
func (s *SubscriptionService) Get(ctx context.Context, id string) (*domain.Subscription, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// List retrieves one page of all subscriptions, newest first.
func (s *SubscriptionService) List(ctx context.Context, page, limit int) ([]domain.Subscription, store.Pagination, error) {
	return s.repo.List(ctx, page, limit)
}

// ListByUser retrieves all subscriptions of the requested user. The acting
// user must be the requested user.
func (s *SubscriptionService) ListByUser(ctx context.Context, actingUserID, requestedUserID string) ([]domain.Subscription, error) {
	requestedUserID, err := parseID(requestedUserID)
	if err != nil {
		return nil, err
	}
	if actingUserID != requestedUserID {
		return nil, domain.ErrNotOwner
	}
	return s.repo.FindByOwner(ctx, requestedUserID)
}

// Update applies a partial update to a subscription the acting user owns.
// The ownership check always runs against the owner loaded from storage.
// A status change away from "cancelled" is rejected; cancelled is terminal.
func (s *SubscriptionService) Update(ctx context.Context, actingUserID, id string, req *domain.UpdateSubscriptionRequest) (*domain.Subscription, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}

	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.UserID != actingUserID {
		return nil, domain.ErrNotOwner
	}
	if sub.IsCancelled() && req.Status != nil && *req.Status != domain.StatusCancelled {
		return nil, domain.NewValidationError("status", "a cancelled subscription cannot change status")
	}

	req.Apply(sub)
	if err := sub.Resolve(s.now()); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, sub)
}

// Cancel transitions a subscription the acting user owns to "cancelled".
// The transition is unconditional and idempotent; cancelled is terminal.
func (s *SubscriptionService) Cancel(ctx context.Context, actingUserID, id string) (*domain.Subscription, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}

	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.UserID != actingUserID {
		return nil, domain.ErrNotOwner
	}

	sub.Status = domain.StatusCancelled
	if err := sub.Resolve(s.now()); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, sub)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, domain.EventSubscriptionCancelled, updated, "")
	return updated, nil
}

// Delete removes a subscription and returns the removed record.
//
// Route wiring requires an authenticated caller, but there is deliberately no
// ownership comparison here: the source behavior this service reproduces does
// not perform one. Kept for parity; tracked as a known gap.
func (s *SubscriptionService) Delete(ctx context.Context, id string) (*domain.Subscription, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.Delete(ctx, id)
}

// Upcoming retrieves subscriptions whose renewal date falls within the fixed
// 7-day lookahead window starting now.
func (s *SubscriptionService) Upcoming(ctx context.Context) ([]domain.Subscription, error) {
	now := s.now()
	return s.repo.FindUpcoming(ctx, now, now.Add(UpcomingWindow))
}
