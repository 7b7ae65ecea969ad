package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aviatehq/aviate/domain/chat"
	"github.com/aviatehq/aviate/ports"
)

// ConversationStore implements ports.ConversationStore with SQLite.
type ConversationStore struct {
	db *DB
}

// NewConversationStore creates a new SQLite conversation store.
func NewConversationStore(db *DB) *ConversationStore {
	return &ConversationStore{db: db}
}

const conversationColumns = `id, user_id, project_id, product, stage, created_at, updated_at`

// Get retrieves a conversation by ID.
func (s *ConversationStore) Get(ctx context.Context, id string) (ports.Conversation, error) {
	var c ports.Conversation
	err := s.db.DB.QueryRowContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = ?`, id,
	).Scan(&c.ID, &c.UserID, &c.ProjectID, &c.Product, &c.Stage, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// FindOrCreate returns the conversation for a user/project pair, creating it
// if absent. The caller supplies the candidate row including its ID.
func (s *ConversationStore) FindOrCreate(ctx context.Context, c ports.Conversation) (ports.Conversation, error) {
	var existing ports.Conversation
	err := s.db.DB.QueryRowContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE user_id = ? AND project_id = ?`,
		c.UserID, c.ProjectID,
	).Scan(&existing.ID, &existing.UserID, &existing.ProjectID, &existing.Product,
		&existing.Stage, &existing.CreatedAt, &existing.UpdatedAt)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return ports.Conversation{}, err
	}

	_, err = s.db.DB.ExecContext(ctx, `
		INSERT INTO conversations (id, user_id, project_id, product, stage, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.UserID, c.ProjectID, c.Product, c.Stage, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return ports.Conversation{}, err
	}
	return c, nil
}

// AppendMessages stores messages and bumps the conversation timestamp.
func (s *ConversationStore) AppendMessages(ctx context.Context, conversationID string, msgs []ports.StoredMessage) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for _, m := range msgs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO conversation_messages (id, conversation_id, role, content, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, m.ID, conversationID, string(m.Role), m.Content, m.CreatedAt); err != nil {
			tx.Rollback()
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE conversations SET updated_at = CURRENT_TIMESTAMP WHERE id = ?", conversationID); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Messages returns a conversation's messages, oldest first.
func (s *ConversationStore) Messages(ctx context.Context, conversationID string, limit int) ([]ports.StoredMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.DB.QueryContext(ctx, `
		SELECT id, conversation_id, role, content, created_at
		FROM conversation_messages
		WHERE conversation_id = ?
		ORDER BY created_at ASC, id ASC
		LIMIT ?
	`, conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []ports.StoredMessage
	for rows.Next() {
		var m ports.StoredMessage
		var role string
		if err := rows.Scan(&m.ID, &m.ConversationID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Role = chat.Role(role)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// Ensure interface compliance.
var _ ports.ConversationStore = (*ConversationStore)(nil)
