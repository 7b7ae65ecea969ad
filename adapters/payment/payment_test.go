package payment

import (
	"context"
	"errors"
	"testing"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantName string
		wantErr  bool
	}{
		{"empty mode is noop", Config{}, "noop", false},
		{"none mode", Config{Mode: "none"}, "noop", false},
		{"stripe with key", Config{Mode: "stripe", Stripe: StripeConfig{SecretKey: "sk_test_x"}}, "stripe", false},
		{"stripe without key", Config{Mode: "stripe"}, "", true},
		{"unknown mode", Config{Mode: "paypal"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.wantName)
			}
		})
	}
}

func TestNoopProvider(t *testing.T) {
	ctx := context.Background()
	p := NewNoopProvider()

	if _, err := p.CreateCustomer(ctx, "a@b.c", "A", "u1"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("CreateCustomer err = %v", err)
	}
	if _, err := p.CreateCheckoutSession(ctx, "c1", "price_1", "s", "c"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("CreateCheckoutSession err = %v", err)
	}
	if err := p.CancelSubscription(ctx, "sub_1", true); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("CancelSubscription err = %v", err)
	}
	if _, _, err := p.ParseWebhook(nil, ""); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("ParseWebhook err = %v", err)
	}
}
