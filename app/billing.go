package app

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aviatehq/aviate/domain/billing"
	"github.com/aviatehq/aviate/ports"
	"github.com/rs/zerolog"
)

// BillingService handles checkout and payment provider webhooks.
type BillingService struct {
	users         ports.UserStore
	subscriptions ports.SubscriptionStore
	provider      ports.PaymentProvider
	prices        map[string]string // plan ID -> provider price ID
	successURL    string
	cancelURL     string
	clock         ports.Clock
	idGen         ports.IDGenerator
	logger        zerolog.Logger
}

// BillingDeps contains dependencies for BillingService.
type BillingDeps struct {
	Users         ports.UserStore
	Subscriptions ports.SubscriptionStore
	Provider      ports.PaymentProvider
	Prices        map[string]string
	SuccessURL    string
	CancelURL     string
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	Logger        zerolog.Logger
}

// NewBillingService creates a billing service.
func NewBillingService(deps BillingDeps) *BillingService {
	return &BillingService{
		users:         deps.Users,
		subscriptions: deps.Subscriptions,
		provider:      deps.Provider,
		prices:        deps.Prices,
		successURL:    deps.SuccessURL,
		cancelURL:     deps.CancelURL,
		clock:         deps.Clock,
		idGen:         deps.IDGen,
		logger:        deps.Logger.With().Str("component", "billing").Logger(),
	}
}

// Checkout creates a payment provider checkout session for a plan and
// returns the redirect URL. Creates the provider customer on first use.
func (s *BillingService) Checkout(ctx context.Context, userID, planID string) (string, error) {
	priceID, err := PlanPriceID(planID, s.prices)
	if err != nil {
		return "", err
	}

	u, err := s.users.Get(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	if u.StripeID == "" {
		customerID, err := s.provider.CreateCustomer(ctx, u.Email, u.Name, u.ID)
		if err != nil {
			return "", err
		}
		u.StripeID = customerID
		u.UpdatedAt = s.clock.Now()
		if err := s.users.Update(ctx, u); err != nil {
			return "", err
		}
	}

	return s.provider.CreateCheckoutSession(ctx, u.StripeID, priceID, s.successURL, s.cancelURL)
}

// Cancel cancels the user's subscription at period end.
func (s *BillingService) Cancel(ctx context.Context, userID string) error {
	sub, err := s.subscriptions.GetByUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !sub.IsActive() {
		return ErrNotFound
	}

	if err := s.provider.CancelSubscription(ctx, sub.ProviderID, false); err != nil {
		return err
	}

	sub.CancelAtPeriodEnd = true
	sub.UpdatedAt = s.clock.Now()
	return s.subscriptions.Update(ctx, sub)
}

// HandleWebhook validates and applies a payment provider event. Unknown
// event types are acknowledged and ignored.
func (s *BillingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	eventType, data, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}

	s.logger.Info().Str("event", eventType).Msg("payment webhook received")

	switch eventType {
	case "customer.subscription.created", "customer.subscription.updated":
		return s.applySubscription(ctx, data)
	case "customer.subscription.deleted":
		return s.expireSubscription(ctx, data)
	default:
		return nil
	}
}

func (s *BillingService) applySubscription(ctx context.Context, data map[string]any) error {
	providerID, _ := data["id"].(string)
	customerID, _ := data["customer"].(string)
	status, _ := data["status"].(string)
	priceID, _ := data["price_id"].(string)
	cancelAtEnd, _ := data["cancel_at_period_end"].(bool)
	if providerID == "" || customerID == "" {
		return errors.New("webhook payload missing subscription identifiers")
	}

	var periodEnd time.Time
	if ts, ok := data["current_period_end"].(float64); ok {
		periodEnd = time.Unix(int64(ts), 0).UTC()
	}

	u, err := s.userByCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	planID := s.planForPrice(priceID)

	now := s.clock.Now()
	sub, err := s.subscriptions.GetByProviderID(ctx, providerID)
	if errors.Is(err, sql.ErrNoRows) {
		sub = billing.Subscription{
			ID:        s.idGen.New(),
			UserID:    u.ID,
			Provider:  s.provider.Name(),
			CreatedAt: now,
		}
		sub.ProviderID = providerID
		sub.PlanID = planID
		sub.Status = billing.SubscriptionStatus(status)
		sub.CurrentPeriodEnd = periodEnd
		sub.CancelAtPeriodEnd = cancelAtEnd
		sub.UpdatedAt = now
		if err := s.subscriptions.Create(ctx, sub); err != nil {
			return err
		}
	} else if err != nil {
		return err
	} else {
		sub.PlanID = planID
		sub.Status = billing.SubscriptionStatus(status)
		sub.CurrentPeriodEnd = periodEnd
		sub.CancelAtPeriodEnd = cancelAtEnd
		sub.UpdatedAt = now
		if err := s.subscriptions.Update(ctx, sub); err != nil {
			return err
		}
	}

	if sub.IsActive() {
		u.PlanID = planID
	} else {
		u.PlanID = ""
	}
	u.UpdatedAt = now
	return s.users.Update(ctx, u)
}

func (s *BillingService) expireSubscription(ctx context.Context, data map[string]any) error {
	providerID, _ := data["id"].(string)
	sub, err := s.subscriptions.GetByProviderID(ctx, providerID)
	if errors.Is(err, sql.ErrNoRows) {
		// Already gone; nothing to unwind.
		return nil
	}
	if err != nil {
		return err
	}

	now := s.clock.Now()
	sub.Status = billing.SubscriptionStatusCancelled
	sub.UpdatedAt = now
	if err := s.subscriptions.Update(ctx, sub); err != nil {
		return err
	}

	u, err := s.users.Get(ctx, sub.UserID)
	if err != nil {
		return err
	}
	u.PlanID = ""
	u.UpdatedAt = now
	return s.users.Update(ctx, u)
}

// userByCustomer finds the user holding a provider customer ID.
func (s *BillingService) userByCustomer(ctx context.Context, customerID string) (ports.User, error) {
	u, err := s.users.GetByStripeID(ctx, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.User{}, errors.New("no user for payment customer " + customerID)
	}
	return u, err
}

func (s *BillingService) planForPrice(priceID string) string {
	for plan, price := range s.prices {
		if price == priceID {
			return plan
		}
	}
	return ""
}
