package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aviatehq/aviate/adapters/clock"
	"github.com/aviatehq/aviate/domain/note"
	"github.com/rs/zerolog"
)

func newNoteService() (*NoteService, *clock.Fake) {
	fake := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := NewNoteService(NoteDeps{
		Notes:  newFakeNoteStore(),
		Clock:  fake,
		IDGen:  &fakeIDGen{},
		Logger: zerolog.Nop(),
	})
	return svc, fake
}

func TestNoteCreateAndGet(t *testing.T) {
	svc, _ := newNoteService()

	n, err := svc.Create(context.Background(), "user-1", "", "Launch ideas", "Post on three forums")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := svc.Get(context.Background(), "user-1", n.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Launch ideas" || got.Body != "Post on three forums" {
		t.Errorf("note = %+v", got)
	}
}

func TestNoteValidation(t *testing.T) {
	svc, _ := newNoteService()

	if _, err := svc.Create(context.Background(), "u", "", "  ", "body"); !errors.Is(err, note.ErrTitleRequired) {
		t.Errorf("blank title err = %v", err)
	}
	long := strings.Repeat("x", note.MaxTitleLen+1)
	if _, err := svc.Create(context.Background(), "u", "", long, ""); !errors.Is(err, note.ErrTitleTooLong) {
		t.Errorf("long title err = %v", err)
	}
}

func TestNotePartialUpdate(t *testing.T) {
	svc, fake := newNoteService()
	n, _ := svc.Create(context.Background(), "user-1", "", "Title", "Body")

	fake.Advance(time.Minute)
	pinned := true
	got, err := svc.Update(context.Background(), "user-1", n.ID, NoteUpdate{Pinned: &pinned})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !got.Pinned {
		t.Error("pin not applied")
	}
	if got.Title != "Title" || got.Body != "Body" {
		t.Errorf("untouched fields changed: %+v", got)
	}
	if !got.UpdatedAt.After(n.UpdatedAt) {
		t.Error("UpdatedAt not bumped")
	}
}

func TestNoteOwnershipHidesExistence(t *testing.T) {
	svc, _ := newNoteService()
	n, _ := svc.Create(context.Background(), "user-1", "", "Private", "")

	if _, err := svc.Get(context.Background(), "user-2", n.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign get err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(context.Background(), "user-2", n.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign delete err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(context.Background(), "user-1", n.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), "user-1", n.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted note still readable: %v", err)
	}
}
