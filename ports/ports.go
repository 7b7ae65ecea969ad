// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"

	"github.com/aviatehq/aviate/domain/billing"
	"github.com/aviatehq/aviate/domain/chat"
	"github.com/aviatehq/aviate/domain/note"
	"github.com/aviatehq/aviate/domain/project"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// Hasher provides password hashing.
type Hasher interface {
	// Hash generates a hash from a plaintext value.
	Hash(plaintext string) ([]byte, error)

	// Compare checks if plaintext matches hash.
	Compare(hash []byte, plaintext string) bool
}

// -----------------------------------------------------------------------------
// Detection Ports
// -----------------------------------------------------------------------------

// CountryCache maps client IPs to last-known country codes with a TTL.
// Expiry is eager: a read past the TTL deletes the entry and reports a miss.
// Cached "" values are valid (negative cache, suppresses repeat lookups).
type CountryCache interface {
	// Get returns the cached country for an IP; ok=false on miss or expiry.
	Get(ctx context.Context, ip string) (country string, ok bool)

	// Set records the country for an IP at the current time.
	Set(ctx context.Context, ip, country string)
}

// GeoLookup resolves a country code from an IP via an external service.
// An empty ip asks the service to infer from the live connection.
type GeoLookup interface {
	Country(ctx context.Context, ip string) (string, error)
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// User represents a user account.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Name         string
	PlanID       string // "" = free tier
	StripeID     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserStore persists user accounts.
type UserStore interface {
	// Get retrieves a user by ID.
	Get(ctx context.Context, id string) (User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (User, error)

	// GetByStripeID retrieves a user by payment provider customer ID.
	GetByStripeID(ctx context.Context, stripeID string) (User, error)

	// Create stores a new user.
	Create(ctx context.Context, u User) error

	// Update modifies an existing user.
	Update(ctx context.Context, u User) error

	// Delete removes a user.
	Delete(ctx context.Context, id string) error
}

// NoteStore persists notes.
type NoteStore interface {
	// Get retrieves a note by ID.
	Get(ctx context.Context, id string) (note.Note, error)

	// ListByUser returns a user's notes, pinned first, newest first.
	ListByUser(ctx context.Context, userID string) ([]note.Note, error)

	// Create stores a new note.
	Create(ctx context.Context, n note.Note) error

	// Update modifies an existing note.
	Update(ctx context.Context, n note.Note) error

	// Delete removes a note.
	Delete(ctx context.Context, id string) error
}

// ProjectStore persists projects.
type ProjectStore interface {
	// Get retrieves a project by ID.
	Get(ctx context.Context, id string) (project.Project, error)

	// ListByUser returns projects the user owns or is a member of.
	ListByUser(ctx context.Context, userID string) ([]project.Project, error)

	// Create stores a new project.
	Create(ctx context.Context, p project.Project) error

	// Update modifies an existing project.
	Update(ctx context.Context, p project.Project) error

	// Delete removes a project and its memberships.
	Delete(ctx context.Context, id string) error
}

// MemberStore persists project memberships.
type MemberStore interface {
	// Get retrieves a membership.
	Get(ctx context.Context, projectID, userID string) (project.Member, error)

	// List returns all members of a project.
	List(ctx context.Context, projectID string) ([]project.Member, error)

	// Add stores a membership.
	Add(ctx context.Context, m project.Member) error

	// Remove deletes a membership.
	Remove(ctx context.Context, projectID, userID string) error
}

// Conversation groups chat messages for a user, optionally per project.
type Conversation struct {
	ID        string
	UserID    string
	ProjectID string // "" = workspace-level chat
	Product   string
	Stage     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StoredMessage is a persisted conversation turn.
type StoredMessage struct {
	ID             string
	ConversationID string
	Role           chat.Role
	Content        string
	CreatedAt      time.Time
}

// ConversationStore persists chat history.
type ConversationStore interface {
	// Get retrieves a conversation by ID.
	Get(ctx context.Context, id string) (Conversation, error)

	// FindOrCreate returns the conversation for a user/project pair,
	// creating it if absent.
	FindOrCreate(ctx context.Context, c Conversation) (Conversation, error)

	// AppendMessages stores messages and bumps the conversation timestamp.
	AppendMessages(ctx context.Context, conversationID string, msgs []StoredMessage) error

	// Messages returns a conversation's messages, oldest first.
	Messages(ctx context.Context, conversationID string, limit int) ([]StoredMessage, error)
}

// SubscriptionStore persists billing subscriptions.
type SubscriptionStore interface {
	// Get retrieves a subscription by ID.
	Get(ctx context.Context, id string) (billing.Subscription, error)

	// GetByProviderID retrieves a subscription by external provider ID.
	GetByProviderID(ctx context.Context, providerID string) (billing.Subscription, error)

	// GetByUser retrieves the latest subscription for a user.
	GetByUser(ctx context.Context, userID string) (billing.Subscription, error)

	// Create stores a new subscription.
	Create(ctx context.Context, sub billing.Subscription) error

	// Update modifies a subscription.
	Update(ctx context.Context, sub billing.Subscription) error
}

// -----------------------------------------------------------------------------
// External Service Ports
// -----------------------------------------------------------------------------

// ChatProvider calls the external chat-completion API.
type ChatProvider interface {
	// Complete sends the full message array and returns one assistant
	// message plus token usage. Quota exhaustion surfaces as
	// chat.ErrQuotaExhausted.
	Complete(ctx context.Context, messages []chat.Message) (chat.Completion, error)
}

// PaymentProvider interfaces with the payment processor.
type PaymentProvider interface {
	// Name returns the provider name (e.g., "stripe").
	Name() string

	// CreateCustomer creates a customer in the payment system.
	CreateCustomer(ctx context.Context, email, name, userID string) (customerID string, err error)

	// CreateCheckoutSession creates a checkout session for a subscription.
	CreateCheckoutSession(ctx context.Context, customerID, priceID, successURL, cancelURL string) (sessionURL string, err error)

	// CancelSubscription cancels a subscription.
	CancelSubscription(ctx context.Context, subscriptionID string, immediately bool) error

	// ParseWebhook parses and validates an incoming webhook.
	// Returns the event type and payload.
	ParseWebhook(payload []byte, signature string) (eventType string, data map[string]any, err error)
}
