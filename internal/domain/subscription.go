/**
 * @description
 * This file defines the core domain model for the subscription tracker:
 * the Subscription struct, its enumerated field types, and the invariant
 * engine that resolves renewal dates and recomputes status on every write.
 */
package domain

import "time"

// Currency is the billing currency of a subscription.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// Frequency is the billing cadence of a subscription.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Category groups subscriptions for reporting.
type Category string

const (
	CategorySports        Category = "sports"
	CategoryEntertainment Category = "entertainment"
	CategoryEducation     Category = "education"
	CategoryHealth        Category = "health"
	CategoryOther         Category = "other"
)

// Status is the lifecycle state of a subscription. Cancelled is terminal.
type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// renewalPeriodDays maps a billing frequency to a fixed day count used to
// derive the renewal date. The monthly and yearly values are deliberate
// fixed-day approximations, not calendar arithmetic.
var renewalPeriodDays = map[Frequency]int{
	FrequencyDaily:   1,
	FrequencyWeekly:  7,
	FrequencyMonthly: 30,
	FrequencyYearly:  365,
}

// Subscription represents one recurring payment obligation owned by exactly
// one user. UserID is bound at creation from the authenticated caller and
// never reassigned.
type Subscription struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Currency      Currency  `json:"currency"`
	Frequency     Frequency `json:"frequency"`
	Category      Category  `json:"category"`
	PaymentMethod string    `json:"paymentMethod"`
	Status        Status    `json:"status"`
	StartDate     time.Time `json:"startDate"`
	RenewalDate   time.Time `json:"renewalDate"`
	UserID        string    `json:"userId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Resolve enforces the subscription invariants ahead of persistence. It is
// the entry gate to every create and update path:
//
//  1. Structural validation of fields and enum membership.
//  2. A missing renewal date is derived as startDate plus the fixed period
//     for the billing frequency.
//  3. The resolved renewal date must be strictly after the start date.
//  4. A renewal date already in the past forces status to "expired",
//     overriding whatever status was supplied. This re-runs on every save,
//     so an active record flips to expired the next time it is written.
//
// A cancelled subscription stays cancelled; no resolution revives it.
func (s *Subscription) Resolve(now time.Time) error {
	if err := s.validate(now); err != nil {
		return err
	}

	if s.RenewalDate.IsZero() {
		s.RenewalDate = s.StartDate.AddDate(0, 0, renewalPeriodDays[s.Frequency])
	}

	if !s.RenewalDate.After(s.StartDate) {
		return NewValidationError("renewalDate", "must be after the start date")
	}

	if s.Status == "" {
		s.Status = StatusActive
	}

	// Expiry is recomputed lazily on write, never by a timer sweep.
	if s.Status != StatusCancelled && s.RenewalDate.Before(now) {
		s.Status = StatusExpired
	}

	return nil
}

func (s *Subscription) validate(now time.Time) error {
	if n := len(s.Name); n < 3 || n > 100 {
		return NewValidationError("name", "must be between 3 and 100 characters")
	}
	if s.Price < 0 {
		return NewValidationError("price", "must not be negative")
	}
	switch s.Currency {
	case CurrencyUSD, CurrencyEUR, CurrencyGBP:
	default:
		return NewValidationError("currency", "must be one of USD, EUR, GBP")
	}
	if _, ok := renewalPeriodDays[s.Frequency]; !ok {
		return NewValidationError("frequency", "must be one of daily, weekly, monthly, yearly")
	}
	switch s.Category {
	case CategorySports, CategoryEntertainment, CategoryEducation, CategoryHealth, CategoryOther:
	default:
		return NewValidationError("category", "must be one of sports, entertainment, education, health, other")
	}
	if s.PaymentMethod == "" {
		return NewValidationError("paymentMethod", "is required")
	}
	switch s.Status {
	case "", StatusActive, StatusExpired, StatusCancelled:
	default:
		return NewValidationError("status", "must be one of active, expired, cancelled")
	}
	if s.StartDate.IsZero() {
		return NewValidationError("startDate", "is required")
	}
	if s.StartDate.After(now) {
		return NewValidationError("startDate", "cannot be in the future")
	}
	return nil
}

// IsCancelled reports whether the subscription reached its terminal state.
func (s *Subscription) IsCancelled() bool {
	return s.Status == StatusCancelled
}

// UpdateSubscriptionRequest carries a partial update. Nil fields are left
// untouched. The owner reference is deliberately absent: it is immutable.
type UpdateSubscriptionRequest struct {
	Name          *string    `json:"name,omitempty"`
	Price         *float64   `json:"price,omitempty"`
	Currency      *Currency  `json:"currency,omitempty"`
	Frequency     *Frequency `json:"frequency,omitempty"`
	Category      *Category  `json:"category,omitempty"`
	PaymentMethod *string    `json:"paymentMethod,omitempty"`
	Status        *Status    `json:"status,omitempty"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	RenewalDate   *time.Time `json:"renewalDate,omitempty"`
}

// Apply merges the non-nil fields of the request into the subscription.
// The result still has to pass Resolve before it may be persisted.
func (r *UpdateSubscriptionRequest) Apply(s *Subscription) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.Price != nil {
		s.Price = *r.Price
	}
	if r.Currency != nil {
		s.Currency = *r.Currency
	}
	if r.Frequency != nil {
		s.Frequency = *r.Frequency
	}
	if r.Category != nil {
		s.Category = *r.Category
	}
	if r.PaymentMethod != nil {
		s.PaymentMethod = *r.PaymentMethod
	}
	if r.Status != nil {
		s.Status = *r.Status
	}
	if r.StartDate != nil {
		s.StartDate = *r.StartDate
	}
	if r.RenewalDate != nil {
		s.RenewalDate = *r.RenewalDate
	}
}
