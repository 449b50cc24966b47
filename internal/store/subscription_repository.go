/**
 * @description
 * This file implements the data access layer for subscriptions. It contains
 * all the SQL queries and row scanning logic; invariant resolution happens
 * in the service layer before any write reaches this file.
 */
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/subtrackr/subscription-api/internal/domain"
)

const subscriptionColumns = `
    id, name, price, currency, frequency, category, payment_method,
    status, start_date, renewal_date, user_id, created_at, updated_at`

// SubscriptionRepository handles database operations for subscriptions.
type SubscriptionRepository struct {
	db *pgxpool.Pool
}

// NewSubscriptionRepository creates a new repository.
func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := row.Scan(
		&sub.ID,
		&sub.Name,
		&sub.Price,
		&sub.Currency,
		&sub.Frequency,
		&sub.Category,
		&sub.PaymentMethod,
		&sub.Status,
		&sub.StartDate,
		&sub.RenewalDate,
		&sub.UserID,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func collectSubscriptions(rows pgx.Rows) ([]domain.Subscription, error) {
	defer rows.Close()
	subs := []domain.Subscription{}
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

// Create inserts a new subscription and returns the stored record with its
// generated id and server timestamps.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	query := `
        INSERT INTO subscriptions
            (name, price, currency, frequency, category, payment_method,
             status, start_date, renewal_date, user_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING` + subscriptionColumns
	return scanSubscription(r.db.QueryRow(ctx, query,
		sub.Name,
		sub.Price,
		sub.Currency,
		sub.Frequency,
		sub.Category,
		sub.PaymentMethod,
		sub.Status,
		sub.StartDate,
		sub.RenewalDate,
		sub.UserID,
	))
}

// FindByID retrieves a single subscription by its identifier.
func (r *SubscriptionRepository) FindByID(ctx context.Context, id string) (*domain.Subscription, error) {
	query := `SELECT` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`
	return scanSubscription(r.db.QueryRow(ctx, query, id))
}

// FindByOwner retrieves all subscriptions belonging to a user, newest first.
func (r *SubscriptionRepository) FindByOwner(ctx context.Context, userID string) ([]domain.Subscription, error) {
	query := `SELECT` + subscriptionColumns + `
        FROM subscriptions WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectSubscriptions(rows)
}

// List retrieves one page of all subscriptions ordered newest first by
// creation time, together with the pagination bookkeeping.
func (r *SubscriptionRepository) List(ctx context.Context, page, limit int) ([]domain.Subscription, Pagination, error) {
	page, limit = NormalizePage(page, limit)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions`).Scan(&total); err != nil {
		return nil, Pagination{}, err
	}

	query := `SELECT` + subscriptionColumns + `
        FROM subscriptions ORDER BY created_at DESC OFFSET $1 LIMIT $2`
	rows, err := r.db.Query(ctx, query, (page-1)*limit, limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	subs, err := collectSubscriptions(rows)
	if err != nil {
		return nil, Pagination{}, err
	}
	return subs, NewPagination(total, page, limit), nil
}

// Update writes the full mutable field set of an already-resolved
// subscription. The owner reference is never part of the update.
func (r *SubscriptionRepository) Update(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	query := `
        UPDATE subscriptions SET
            name = $2, price = $3, currency = $4, frequency = $5,
            category = $6, payment_method = $7, status = $8,
            start_date = $9, renewal_date = $10, updated_at = NOW()
        WHERE id = $1
        RETURNING` + subscriptionColumns
	return scanSubscription(r.db.QueryRow(ctx, query,
		sub.ID,
		sub.Name,
		sub.Price,
		sub.Currency,
		sub.Frequency,
		sub.Category,
		sub.PaymentMethod,
		sub.Status,
		sub.StartDate,
		sub.RenewalDate,
	))
}

// Delete removes a subscription and returns the removed record.
func (r *SubscriptionRepository) Delete(ctx context.Context, id string) (*domain.Subscription, error) {
	query := `DELETE FROM subscriptions WHERE id = $1 RETURNING` + subscriptionColumns
	return scanSubscription(r.db.QueryRow(ctx, query, id))
}

// FindUpcoming retrieves the subscriptions whose renewal date falls in the
// inclusive window [from, to].
func (r *SubscriptionRepository) FindUpcoming(ctx context.Context, from, to time.Time) ([]domain.Subscription, error) {
	query := `SELECT` + subscriptionColumns + `
        FROM subscriptions
        WHERE renewal_date >= $1 AND renewal_date <= $2
        ORDER BY renewal_date ASC`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	return collectSubscriptions(rows)
}
