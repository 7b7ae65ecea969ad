package sqlite

import (
	"context"

	"github.com/aviatehq/aviate/domain/billing"
	"github.com/aviatehq/aviate/ports"
)

// SubscriptionStore implements ports.SubscriptionStore with SQLite.
type SubscriptionStore struct {
	db *DB
}

// NewSubscriptionStore creates a new SQLite subscription store.
func NewSubscriptionStore(db *DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

const subscriptionColumns = `id, user_id, plan_id, provider_id, provider, status,
	current_period_end, cancel_at_period_end, created_at, updated_at`

// Get retrieves a subscription by ID.
func (s *SubscriptionStore) Get(ctx context.Context, id string) (billing.Subscription, error) {
	var sub billing.Subscription
	var status string
	err := s.db.DB.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = ?`, id,
	).Scan(&sub.ID, &sub.UserID, &sub.PlanID, &sub.ProviderID, &sub.Provider, &status,
		&sub.CurrentPeriodEnd, &sub.CancelAtPeriodEnd, &sub.CreatedAt, &sub.UpdatedAt)
	sub.Status = billing.SubscriptionStatus(status)
	return sub, err
}

// GetByProviderID retrieves a subscription by external provider ID.
func (s *SubscriptionStore) GetByProviderID(ctx context.Context, providerID string) (billing.Subscription, error) {
	var sub billing.Subscription
	var status string
	err := s.db.DB.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE provider_id = ?`, providerID,
	).Scan(&sub.ID, &sub.UserID, &sub.PlanID, &sub.ProviderID, &sub.Provider, &status,
		&sub.CurrentPeriodEnd, &sub.CancelAtPeriodEnd, &sub.CreatedAt, &sub.UpdatedAt)
	sub.Status = billing.SubscriptionStatus(status)
	return sub, err
}

// GetByUser retrieves the latest subscription for a user.
func (s *SubscriptionStore) GetByUser(ctx context.Context, userID string) (billing.Subscription, error) {
	var sub billing.Subscription
	var status string
	err := s.db.DB.QueryRowContext(ctx, `
		SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE user_id = ? ORDER BY created_at DESC LIMIT 1
	`, userID).Scan(&sub.ID, &sub.UserID, &sub.PlanID, &sub.ProviderID, &sub.Provider, &status,
		&sub.CurrentPeriodEnd, &sub.CancelAtPeriodEnd, &sub.CreatedAt, &sub.UpdatedAt)
	sub.Status = billing.SubscriptionStatus(status)
	return sub, err
}

// Create stores a new subscription.
func (s *SubscriptionStore) Create(ctx context.Context, sub billing.Subscription) error {
	_, err := s.db.DB.ExecContext(ctx, `
		INSERT INTO subscriptions (id, user_id, plan_id, provider_id, provider, status,
								   current_period_end, cancel_at_period_end, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sub.ID, sub.UserID, sub.PlanID, sub.ProviderID, sub.Provider, string(sub.Status),
		sub.CurrentPeriodEnd, sub.CancelAtPeriodEnd, sub.CreatedAt, sub.UpdatedAt)
	return err
}

// Update modifies a subscription.
func (s *SubscriptionStore) Update(ctx context.Context, sub billing.Subscription) error {
	_, err := s.db.DB.ExecContext(ctx, `
		UPDATE subscriptions SET plan_id = ?, provider_id = ?, provider = ?, status = ?,
								 current_period_end = ?, cancel_at_period_end = ?,
								 updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, sub.PlanID, sub.ProviderID, sub.Provider, string(sub.Status),
		sub.CurrentPeriodEnd, sub.CancelAtPeriodEnd, sub.ID)
	return err
}

// Ensure interface compliance.
var _ ports.SubscriptionStore = (*SubscriptionStore)(nil)
