// Package billing provides subscription value types and pure functions.
package billing

import "time"

// SubscriptionStatus represents subscription state.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPastDue   SubscriptionStatus = "past_due"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusTrialing  SubscriptionStatus = "trialing"
	SubscriptionStatusUnpaid    SubscriptionStatus = "unpaid"
)

// Subscription represents a workspace subscription (value type).
type Subscription struct {
	ID                string
	UserID            string
	PlanID            string // pricing catalog key, e.g. "bundle-monthly"
	ProviderID        string // external subscription ID at the payment provider
	Provider          string // "stripe" or "noop"
	Status            SubscriptionStatus
	CurrentPeriodEnd  time.Time
	CancelAtPeriodEnd bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsActive returns true if the subscription grants workspace access.
func (s Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive || s.Status == SubscriptionStatusTrialing
}

// IsCancelling returns true if the subscription will lapse at period end.
func (s Subscription) IsCancelling() bool {
	return s.CancelAtPeriodEnd
}
