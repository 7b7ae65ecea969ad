package web

import (
	"net/http"
	"time"

	"github.com/aviatehq/aviate/app"
	"github.com/aviatehq/aviate/domain/note"
	"github.com/go-chi/chi/v5"
)

type noteJSON struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId,omitempty"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Pinned    bool   `json:"pinned"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toNoteJSON(n note.Note) noteJSON {
	return noteJSON{
		ID:        n.ID,
		ProjectID: n.ProjectID,
		Title:     n.Title,
		Body:      n.Body,
		Pinned:    n.Pinned,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: n.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type noteCreateRequest struct {
	ProjectID string `json:"projectId,omitempty"`
	Title     string `json:"title"`
	Body      string `json:"body"`
}

type noteUpdateRequest struct {
	Title  *string `json:"title,omitempty"`
	Body   *string `json:"body,omitempty"`
	Pinned *bool   `json:"pinned,omitempty"`
}

// NoteList returns the caller's notes, pinned first, newest first.
func (h *Handler) NoteList(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.List(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list notes")
		return
	}
	out := make([]noteJSON, len(notes))
	for i, n := range notes {
		out[i] = toNoteJSON(n)
	}
	respondJSON(w, http.StatusOK, map[string]any{"notes": out})
}

// NoteCreate stores a new note.
func (h *Handler) NoteCreate(w http.ResponseWriter, r *http.Request) {
	var req noteCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	n, err := h.notes.Create(r.Context(), currentUser(r.Context()).ID, req.ProjectID, req.Title, req.Body)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toNoteJSON(n))
}

// NoteGet returns a single note.
func (h *Handler) NoteGet(w http.ResponseWriter, r *http.Request) {
	n, err := h.notes.Get(r.Context(), currentUser(r.Context()).ID, chi.URLParam(r, "id"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toNoteJSON(n))
}

// NoteUpdate applies a partial update.
func (h *Handler) NoteUpdate(w http.ResponseWriter, r *http.Request) {
	var req noteUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	n, err := h.notes.Update(r.Context(), currentUser(r.Context()).ID, chi.URLParam(r, "id"), app.NoteUpdate{
		Title:  req.Title,
		Body:   req.Body,
		Pinned: req.Pinned,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toNoteJSON(n))
}

// NotePin toggles the pinned flag on.
func (h *Handler) NotePin(w http.ResponseWriter, r *http.Request) {
	pinned := true
	n, err := h.notes.Update(r.Context(), currentUser(r.Context()).ID, chi.URLParam(r, "id"), app.NoteUpdate{Pinned: &pinned})
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toNoteJSON(n))
}

// NoteDelete removes a note.
func (h *Handler) NoteDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.notes.Delete(r.Context(), currentUser(r.Context()).ID, chi.URLParam(r, "id")); err != nil {
		respondAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
