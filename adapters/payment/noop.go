package payment

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by the noop provider for every operation.
var ErrNotConfigured = errors.New("payment: no provider configured")

// NoopProvider is used when billing is disabled. Every operation fails with
// ErrNotConfigured so callers can surface a clear message.
type NoopProvider struct{}

// NewNoopProvider creates a noop payment provider.
func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

// Name returns the provider name.
func (p *NoopProvider) Name() string {
	return "noop"
}

// CreateCustomer always fails.
func (p *NoopProvider) CreateCustomer(ctx context.Context, email, name, userID string) (string, error) {
	return "", ErrNotConfigured
}

// CreateCheckoutSession always fails.
func (p *NoopProvider) CreateCheckoutSession(ctx context.Context, customerID, priceID, successURL, cancelURL string) (string, error) {
	return "", ErrNotConfigured
}

// CancelSubscription always fails.
func (p *NoopProvider) CancelSubscription(ctx context.Context, subscriptionID string, immediately bool) error {
	return ErrNotConfigured
}

// ParseWebhook always fails.
func (p *NoopProvider) ParseWebhook(payload []byte, signature string) (string, map[string]any, error) {
	return "", nil, ErrNotConfigured
}
