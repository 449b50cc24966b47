package domain

// Routing keys for subscription lifecycle events published to the message broker.
const (
	EventSubscriptionCreated   = "subscription.created"
	EventSubscriptionCancelled = "subscription.cancelled"
	EventSubscriptionReminder  = "subscription.reminder"
)

// SubscriptionEvent is the payload published for subscription lifecycle events.
type SubscriptionEvent struct {
	SubscriptionID string `json:"subscription_id"`
	UserID         string `json:"user_id"`
	Status         Status `json:"status"`
	// Label carries the reminder label (e.g. "7-days-before") for reminder
	// events and is empty otherwise.
	Label string `json:"label,omitempty"`
}
