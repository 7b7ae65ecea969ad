package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aviatehq/aviate/adapters/clock"
	"github.com/aviatehq/aviate/domain/billing"
	"github.com/aviatehq/aviate/ports"
	"github.com/rs/zerolog"
)

// fakePayment is a scripted ports.PaymentProvider.
type fakePayment struct {
	customers int
	cancelled []string
	webhook   struct {
		eventType string
		data      map[string]any
		err       error
	}
}

func (f *fakePayment) Name() string { return "fake" }

func (f *fakePayment) CreateCustomer(_ context.Context, email, name, userID string) (string, error) {
	f.customers++
	return "cus_" + userID, nil
}

func (f *fakePayment) CreateCheckoutSession(_ context.Context, customerID, priceID, successURL, cancelURL string) (string, error) {
	return "https://pay.example.com/" + customerID + "/" + priceID, nil
}

func (f *fakePayment) CancelSubscription(_ context.Context, subscriptionID string, immediately bool) error {
	f.cancelled = append(f.cancelled, subscriptionID)
	return nil
}

func (f *fakePayment) ParseWebhook(payload []byte, signature string) (string, map[string]any, error) {
	return f.webhook.eventType, f.webhook.data, f.webhook.err
}

var _ ports.PaymentProvider = (*fakePayment)(nil)

func newBillingService(users *fakeUserStore, subs *fakeSubscriptionStore, provider *fakePayment) *BillingService {
	return NewBillingService(BillingDeps{
		Users:         users,
		Subscriptions: subs,
		Provider:      provider,
		Prices: map[string]string{
			"bundle-monthly": "price_bundle_m",
			"bundle-yearly":  "price_bundle_y",
		},
		SuccessURL: "https://aviate.example.com/billing/success",
		CancelURL:  "https://aviate.example.com/pricing",
		Clock:      clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		IDGen:      &fakeIDGen{},
		Logger:     zerolog.Nop(),
	})
}

func TestBillingCheckoutCreatesCustomerOnce(t *testing.T) {
	users := newFakeUserStore()
	users.Create(context.Background(), ports.User{ID: "u1", Email: "a@example.com"})
	provider := &fakePayment{}
	svc := newBillingService(users, newFakeSubscriptionStore(), provider)

	url, err := svc.Checkout(context.Background(), "u1", "bundle-monthly")
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if url != "https://pay.example.com/cus_u1/price_bundle_m" {
		t.Errorf("url = %q", url)
	}

	u, _ := users.Get(context.Background(), "u1")
	if u.StripeID != "cus_u1" {
		t.Errorf("customer ID not persisted: %q", u.StripeID)
	}

	// Second checkout reuses the stored customer.
	if _, err := svc.Checkout(context.Background(), "u1", "bundle-yearly"); err != nil {
		t.Fatal(err)
	}
	if provider.customers != 1 {
		t.Errorf("created %d customers, want 1", provider.customers)
	}
}

func TestBillingCheckoutUnknownPlan(t *testing.T) {
	users := newFakeUserStore()
	users.Create(context.Background(), ports.User{ID: "u1"})
	svc := newBillingService(users, newFakeSubscriptionStore(), &fakePayment{})

	if _, err := svc.Checkout(context.Background(), "u1", "enterprise"); err == nil {
		t.Error("unknown plan accepted")
	}
}

func TestBillingWebhookActivatesSubscription(t *testing.T) {
	users := newFakeUserStore()
	users.Create(context.Background(), ports.User{ID: "u1", Email: "a@example.com", StripeID: "cus_u1"})
	subs := newFakeSubscriptionStore()
	provider := &fakePayment{}
	provider.webhook.eventType = "customer.subscription.created"
	provider.webhook.data = map[string]any{
		"id":                 "sub_123",
		"customer":           "cus_u1",
		"status":             "active",
		"price_id":           "price_bundle_m",
		"current_period_end": float64(1780000000),
	}
	svc := newBillingService(users, subs, provider)

	if err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}

	sub, err := subs.GetByProviderID(context.Background(), "sub_123")
	if err != nil {
		t.Fatalf("subscription not stored: %v", err)
	}
	if sub.PlanID != "bundle-monthly" || !sub.IsActive() {
		t.Errorf("sub = %+v", sub)
	}
	u, _ := users.Get(context.Background(), "u1")
	if u.PlanID != "bundle-monthly" {
		t.Errorf("user plan = %q, want bundle-monthly", u.PlanID)
	}
}

func TestBillingWebhookDeletedClearsPlan(t *testing.T) {
	users := newFakeUserStore()
	users.Create(context.Background(), ports.User{ID: "u1", StripeID: "cus_u1", PlanID: "bundle-monthly"})
	subs := newFakeSubscriptionStore()
	subs.Create(context.Background(), billing.Subscription{
		ID: "s1", UserID: "u1", ProviderID: "sub_123",
		Status: billing.SubscriptionStatusActive, PlanID: "bundle-monthly",
	})
	provider := &fakePayment{}
	provider.webhook.eventType = "customer.subscription.deleted"
	provider.webhook.data = map[string]any{"id": "sub_123"}
	svc := newBillingService(users, subs, provider)

	if err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}

	sub, _ := subs.Get(context.Background(), "s1")
	if sub.Status != billing.SubscriptionStatusCancelled {
		t.Errorf("status = %q", sub.Status)
	}
	u, _ := users.Get(context.Background(), "u1")
	if u.PlanID != "" {
		t.Errorf("user plan = %q, want cleared", u.PlanID)
	}
}

func TestBillingWebhookBadSignature(t *testing.T) {
	provider := &fakePayment{}
	provider.webhook.err = errors.New("signature mismatch")
	svc := newBillingService(newFakeUserStore(), newFakeSubscriptionStore(), provider)

	if err := svc.HandleWebhook(context.Background(), []byte("{}"), "bad"); err == nil {
		t.Error("bad signature accepted")
	}
}

func TestBillingWebhookUnknownEventIgnored(t *testing.T) {
	provider := &fakePayment{}
	provider.webhook.eventType = "invoice.finalized"
	svc := newBillingService(newFakeUserStore(), newFakeSubscriptionStore(), provider)

	if err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Errorf("unknown event err = %v, want nil", err)
	}
}

func TestBillingCancelAtPeriodEnd(t *testing.T) {
	users := newFakeUserStore()
	users.Create(context.Background(), ports.User{ID: "u1"})
	subs := newFakeSubscriptionStore()
	subs.Create(context.Background(), billing.Subscription{
		ID: "s1", UserID: "u1", ProviderID: "sub_123",
		Status: billing.SubscriptionStatusActive,
	})
	provider := &fakePayment{}
	svc := newBillingService(users, subs, provider)

	if err := svc.Cancel(context.Background(), "u1"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if len(provider.cancelled) != 1 || provider.cancelled[0] != "sub_123" {
		t.Errorf("cancelled = %v", provider.cancelled)
	}
	sub, _ := subs.Get(context.Background(), "s1")
	if !sub.CancelAtPeriodEnd {
		t.Error("CancelAtPeriodEnd not set")
	}
}
