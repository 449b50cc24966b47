/**
 * @description
 * This file implements the reminder side of the workflow contract. The
 * external engine calls back with a subscription id; the service decides
 * which reminder labels are due on the current day and sends one email per
 * due label to the subscription's owner.
 */
package app

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/subtrackr/subscription-api/internal/domain"
	"github.com/subtrackr/subscription-api/pkg/mailer"
)

// reminderOffsets maps each reminder label to its distance, in days, before
// the renewal date. The labels are fixed by the workflow contract.
var reminderOffsets = []struct {
	label string
	days  int
}{
	{"7-days-before", 7},
	{"5-days-before", 5},
	{"2-days-before", 2},
	{"1-day-before", 1},
}

// ReminderMailer sends one reminder email identified by its label.
type ReminderMailer interface {
	SendReminder(label string, mail mailer.ReminderMail) error
}

// ReminderService handles workflow callback processing.
type ReminderService struct {
	subs   SubscriptionRepository
	users  UserRepository
	mail   ReminderMailer
	events EventPublisher
	logger *slog.Logger
	now    func() time.Time
}

// NewReminderService creates a new reminder service. events may be nil when
// no broker is configured.
func NewReminderService(
	subs SubscriptionRepository,
	users UserRepository,
	mail ReminderMailer,
	events EventPublisher,
	logger *slog.Logger,
) *ReminderService {
	return &ReminderService{
		subs:   subs,
		users:  users,
		mail:   mail,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// DueReminders returns the reminder labels due for a subscription on the
// calendar day of now. Only active subscriptions produce reminders.
func DueReminders(sub *domain.Subscription, now time.Time) []string {
	if sub.Status != domain.StatusActive {
		return nil
	}
	var due []string
	for _, offset := range reminderOffsets {
		reminderDate := sub.RenewalDate.AddDate(0, 0, -offset.days)
		if sameDay(reminderDate, now) {
			due = append(due, offset.label)
		}
	}
	return due
}

// ProcessReminders handles one workflow callback for a subscription. It is a
// no-op for subscriptions that are no longer active or whose renewal date
// already passed; the engine stops the run once nothing remains to send.
func (s *ReminderService) ProcessReminders(ctx context.Context, subscriptionID string) error {
	id, err := parseID(subscriptionID)
	if err != nil {
		return err
	}

	sub, err := s.subs.FindByID(ctx, id)
	if err != nil {
		return err
	}

	now := s.now()
	if sub.Status != domain.StatusActive || sub.RenewalDate.Before(now) {
		s.logger.Info("skipping reminders for inactive subscription",
			"subscription_id", sub.ID, "status", sub.Status)
		return nil
	}

	due := DueReminders(sub, now)
	if len(due) == 0 {
		s.logger.Info("no reminders due", "subscription_id", sub.ID)
		return nil
	}

	owner, err := s.users.FindByID(ctx, sub.UserID)
	if err != nil {
		return err
	}

	mail := mailer.ReminderMail{
		To:            owner.Email,
		UserName:      owner.Name,
		PlanName:      sub.Name,
		Price:         formatPrice(sub),
		RenewalDate:   sub.RenewalDate.Format("Jan 2, 2006"),
		PaymentMethod: sub.PaymentMethod,
	}

	for _, label := range due {
		if err := s.mail.SendReminder(label, mail); err != nil {
			return &domain.DependencyError{Collaborator: "email", Err: err}
		}
		s.logger.Info("reminder sent", "subscription_id", sub.ID, "label", label)
		s.publishReminderEvent(ctx, sub, label)
	}
	return nil
}

func formatPrice(sub *domain.Subscription) string {
	price := strconv.FormatFloat(sub.Price, 'f', -1, 64)
	return string(sub.Currency) + " " + price + " (" + string(sub.Frequency) + ")"
}

func (s *ReminderService) publishReminderEvent(ctx context.Context, sub *domain.Subscription, label string) {
	if s.events == nil {
		return
	}
	event := domain.SubscriptionEvent{
		SubscriptionID: sub.ID,
		UserID:         sub.UserID,
		Status:         sub.Status,
		Label:          label,
	}
	if err := s.events.Publish(ctx, EventsExchange, domain.EventSubscriptionReminder, event); err != nil {
		s.logger.Error("failed to publish reminder event",
			"subscription_id", sub.ID, "label", label, "error", err)
	}
}
