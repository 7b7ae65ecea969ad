package payment

import (
	"fmt"

	"github.com/aviatehq/aviate/ports"
)

// Config selects and configures a payment provider.
type Config struct {
	Mode   string // "none" or "stripe"
	Stripe StripeConfig
}

// NewProvider creates a payment provider from configuration.
func NewProvider(cfg Config) (ports.PaymentProvider, error) {
	switch cfg.Mode {
	case "", "none":
		return NewNoopProvider(), nil
	case "stripe":
		if cfg.Stripe.SecretKey == "" {
			return nil, fmt.Errorf("payment: stripe secret key is required")
		}
		return NewStripeProvider(cfg.Stripe), nil
	default:
		return nil, fmt.Errorf("payment: unknown mode %q", cfg.Mode)
	}
}
