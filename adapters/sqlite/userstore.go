package sqlite

import (
	"context"
	"database/sql"

	"github.com/aviatehq/aviate/ports"
)

// UserStore implements ports.UserStore with SQLite.
type UserStore struct {
	db *DB
}

// NewUserStore creates a new SQLite user store.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, password_hash, name, plan_id, stripe_id, created_at, updated_at`

func scanUser(row *sql.Row) (ports.User, error) {
	var u ports.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.PlanID,
		&u.StripeID, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Get retrieves a user by ID.
func (s *UserStore) Get(ctx context.Context, id string) (ports.User, error) {
	return scanUser(s.db.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// GetByEmail retrieves a user by email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (ports.User, error) {
	return scanUser(s.db.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

// GetByStripeID retrieves a user by payment provider customer ID.
func (s *UserStore) GetByStripeID(ctx context.Context, stripeID string) (ports.User, error) {
	return scanUser(s.db.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE stripe_id = ?`, stripeID))
}

// Create stores a new user.
func (s *UserStore) Create(ctx context.Context, u ports.User) error {
	_, err := s.db.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, name, plan_id, stripe_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Email, u.PasswordHash, u.Name, u.PlanID, u.StripeID, u.CreatedAt, u.UpdatedAt)
	return err
}

// Update modifies an existing user.
func (s *UserStore) Update(ctx context.Context, u ports.User) error {
	_, err := s.db.DB.ExecContext(ctx, `
		UPDATE users SET email = ?, password_hash = ?, name = ?, plan_id = ?,
						 stripe_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, u.Email, u.PasswordHash, u.Name, u.PlanID, u.StripeID, u.ID)
	return err
}

// Delete removes a user.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.DB.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	return err
}

// Ensure interface compliance.
var _ ports.UserStore = (*UserStore)(nil)
