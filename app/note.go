package app

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aviatehq/aviate/domain/note"
	"github.com/aviatehq/aviate/ports"
	"github.com/rs/zerolog"
)

// NoteService manages workspace notes.
type NoteService struct {
	notes  ports.NoteStore
	clock  ports.Clock
	idGen  ports.IDGenerator
	logger zerolog.Logger
}

// NoteDeps contains dependencies for NoteService.
type NoteDeps struct {
	Notes  ports.NoteStore
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger zerolog.Logger
}

// NewNoteService creates a note service.
func NewNoteService(deps NoteDeps) *NoteService {
	return &NoteService{
		notes:  deps.Notes,
		clock:  deps.Clock,
		idGen:  deps.IDGen,
		logger: deps.Logger.With().Str("component", "notes").Logger(),
	}
}

// Create validates and stores a new note for the user.
func (s *NoteService) Create(ctx context.Context, userID, projectID, title, body string) (note.Note, error) {
	now := s.clock.Now()
	n := note.Note{
		ID:        s.idGen.New(),
		UserID:    userID,
		ProjectID: projectID,
		Title:     title,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := note.Validate(n); err != nil {
		return note.Note{}, err
	}
	if err := s.notes.Create(ctx, n); err != nil {
		return note.Note{}, err
	}
	return n, nil
}

// List returns the user's notes, pinned first, newest first.
func (s *NoteService) List(ctx context.Context, userID string) ([]note.Note, error) {
	return s.notes.ListByUser(ctx, userID)
}

// Get returns a single note after checking ownership.
func (s *NoteService) Get(ctx context.Context, userID, noteID string) (note.Note, error) {
	return s.owned(ctx, userID, noteID)
}

// NoteUpdate carries the mutable fields of a note. Nil pointers leave the
// field unchanged.
type NoteUpdate struct {
	Title  *string
	Body   *string
	Pinned *bool
}

// Update applies a partial update to an owned note.
func (s *NoteService) Update(ctx context.Context, userID, noteID string, upd NoteUpdate) (note.Note, error) {
	n, err := s.owned(ctx, userID, noteID)
	if err != nil {
		return note.Note{}, err
	}

	if upd.Title != nil {
		n.Title = *upd.Title
	}
	if upd.Body != nil {
		n.Body = *upd.Body
	}
	if upd.Pinned != nil {
		n.Pinned = *upd.Pinned
	}
	n.UpdatedAt = s.clock.Now()

	if err := note.Validate(n); err != nil {
		return note.Note{}, err
	}
	if err := s.notes.Update(ctx, n); err != nil {
		return note.Note{}, err
	}
	return n, nil
}

// Delete removes an owned note.
func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	if _, err := s.owned(ctx, userID, noteID); err != nil {
		return err
	}
	return s.notes.Delete(ctx, noteID)
}

func (s *NoteService) owned(ctx context.Context, userID, noteID string) (note.Note, error) {
	n, err := s.notes.Get(ctx, noteID)
	if errors.Is(err, sql.ErrNoRows) {
		return note.Note{}, ErrNotFound
	}
	if err != nil {
		return note.Note{}, err
	}
	if n.UserID != userID {
		// Hide existence from non-owners.
		return note.Note{}, ErrNotFound
	}
	return n, nil
}
