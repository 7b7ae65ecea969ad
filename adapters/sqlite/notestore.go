package sqlite

import (
	"context"

	"github.com/aviatehq/aviate/domain/note"
	"github.com/aviatehq/aviate/ports"
)

// NoteStore implements ports.NoteStore with SQLite.
type NoteStore struct {
	db *DB
}

// NewNoteStore creates a new SQLite note store.
func NewNoteStore(db *DB) *NoteStore {
	return &NoteStore{db: db}
}

const noteColumns = `id, user_id, project_id, title, body, pinned, created_at, updated_at`

// Get retrieves a note by ID.
func (s *NoteStore) Get(ctx context.Context, id string) (note.Note, error) {
	var n note.Note
	err := s.db.DB.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id,
	).Scan(&n.ID, &n.UserID, &n.ProjectID, &n.Title, &n.Body, &n.Pinned,
		&n.CreatedAt, &n.UpdatedAt)
	return n, err
}

// ListByUser returns a user's notes, pinned first, newest first.
func (s *NoteStore) ListByUser(ctx context.Context, userID string) ([]note.Note, error) {
	rows, err := s.db.DB.QueryContext(ctx, `
		SELECT `+noteColumns+` FROM notes
		WHERE user_id = ?
		ORDER BY pinned DESC, updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []note.Note
	for rows.Next() {
		var n note.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.ProjectID, &n.Title, &n.Body,
			&n.Pinned, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Create stores a new note.
func (s *NoteStore) Create(ctx context.Context, n note.Note) error {
	_, err := s.db.DB.ExecContext(ctx, `
		INSERT INTO notes (id, user_id, project_id, title, body, pinned, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.UserID, n.ProjectID, n.Title, n.Body, n.Pinned, n.CreatedAt, n.UpdatedAt)
	return err
}

// Update modifies an existing note.
func (s *NoteStore) Update(ctx context.Context, n note.Note) error {
	_, err := s.db.DB.ExecContext(ctx, `
		UPDATE notes SET project_id = ?, title = ?, body = ?, pinned = ?,
						 updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, n.ProjectID, n.Title, n.Body, n.Pinned, n.ID)
	return err
}

// Delete removes a note.
func (s *NoteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.DB.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	return err
}

// Ensure interface compliance.
var _ ports.NoteStore = (*NoteStore)(nil)
