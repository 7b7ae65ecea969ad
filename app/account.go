package app

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/aviatehq/aviate/adapters/auth"
	"github.com/aviatehq/aviate/ports"
	"github.com/rs/zerolog"
)

// AccountService handles signup, login, and session tokens.
type AccountService struct {
	users  ports.UserStore
	hasher ports.Hasher
	tokens *auth.TokenService
	clock  ports.Clock
	idGen  ports.IDGenerator
	logger zerolog.Logger
}

// AccountDeps contains dependencies for AccountService.
type AccountDeps struct {
	Users  ports.UserStore
	Hasher ports.Hasher
	Tokens *auth.TokenService
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger zerolog.Logger
}

// NewAccountService creates an account service.
func NewAccountService(deps AccountDeps) *AccountService {
	return &AccountService{
		users:  deps.Users,
		hasher: deps.Hasher,
		tokens: deps.Tokens,
		clock:  deps.Clock,
		idGen:  deps.IDGen,
		logger: deps.Logger.With().Str("component", "accounts").Logger(),
	}
}

// Session is an authenticated session token plus the user it belongs to.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      ports.User
}

// Signup creates an account and returns a session.
func (s *AccountService) Signup(ctx context.Context, email, password, name string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return Session{}, errors.New("invalid email")
	}
	if len(password) < 8 {
		return Session{}, errors.New("password must be at least 8 characters")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return Session{}, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return Session{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return Session{}, err
	}

	now := s.clock.Now()
	u := ports.User{
		ID:           s.idGen.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return Session{}, err
	}
	s.logger.Info().Str("user", u.ID).Msg("account created")

	return s.session(u)
}

// Login verifies credentials and returns a session.
func (s *AccountService) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrBadCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if !s.hasher.Compare(u.PasswordHash, password) {
		return Session{}, ErrBadCredentials
	}
	return s.session(u)
}

// Authenticate resolves a bearer token to the user it identifies.
func (s *AccountService) Authenticate(ctx context.Context, token string) (ports.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return ports.User{}, ErrBadCredentials
	}
	u, err := s.users.Get(ctx, claims.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.User{}, ErrBadCredentials
	}
	return u, err
}

// Get returns a user by ID.
func (s *AccountService) Get(ctx context.Context, userID string) (ports.User, error) {
	u, err := s.users.Get(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.User{}, ErrNotFound
	}
	return u, err
}

func (s *AccountService) session(u ports.User) (Session, error) {
	token, expiresAt, err := s.tokens.GenerateToken(u.ID, u.Email, "user")
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: expiresAt, User: u}, nil
}
