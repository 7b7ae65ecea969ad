package web

import (
	"net/http"
	"time"

	"github.com/aviatehq/aviate/domain/project"
	"github.com/go-chi/chi/v5"
)

type projectJSON struct {
	ID        string `json:"id"`
	OwnerID   string `json:"ownerId"`
	Name      string `json:"name"`
	Product   string `json:"product"`
	Stage     string `json:"stage"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toProjectJSON(p project.Project) projectJSON {
	return projectJSON{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		Product:   p.Product,
		Stage:     p.Stage,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type memberJSON struct {
	UserID  string `json:"userId"`
	Role    string `json:"role"`
	AddedAt string `json:"addedAt"`
}

// ProjectList returns projects the caller owns or belongs to.
func (h *Handler) ProjectList(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}
	out := make([]projectJSON, len(projects))
	for i, p := range projects {
		out[i] = toProjectJSON(p)
	}
	respondJSON(w, http.StatusOK, map[string]any{"projects": out})
}

type projectCreateRequest struct {
	Name    string `json:"name"`
	Product string `json:"product"`
}

// ProjectCreate starts a new project at the product's first stage.
func (h *Handler) ProjectCreate(w http.ResponseWriter, r *http.Request) {
	var req projectCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p, err := h.projects.Create(r.Context(), currentUser(r.Context()).ID, req.Name, req.Product)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toProjectJSON(p))
}

// ProjectGet returns a single project.
func (h *Handler) ProjectGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.projects.Get(r.Context(), currentUser(r.Context()).ID, chi.URLParam(r, "id"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProjectJSON(p))
}

type projectUpdateRequest struct {
	Name string `json:"name"`
}

// ProjectUpdate renames a project.
func (h *Handler) ProjectUpdate(w http.ResponseWriter, r *http.Request) {
	var req projectUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p, err := h.projects.Rename(r.Context(), currentUser(r.Context()).ID, chi.URLParam(r, "id"), req.Name)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProjectJSON(p))
}

// ProjectAdvance moves a project to its next workflow stage.
func (h *Handler) ProjectAdvance(w http.ResponseWriter, r *http.Request) {
	p, err := h.projects.Advance(r.Context(), currentUser(r.Context()).ID, chi.URLParam(r, "id"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProjectJSON(p))
}

type setStageRequest struct {
	Stage string `json:"stage"`
}

// ProjectSetStage jumps a project to any stage of its workflow (owner only).
func (h *Handler) ProjectSetStage(w http.ResponseWriter, r *http.Request) {
	var req setStageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p, err := h.projects.SetStage(r.Context(), currentUser(r.Context()).ID, chi.URLParam(r, "id"), req.Stage)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProjectJSON(p))
}

// ProjectDelete removes a project (owner only).
func (h *Handler) ProjectDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.Delete(r.Context(), currentUser(r.Context()).ID, chi.URLParam(r, "id")); err != nil {
		respondAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MemberList returns a project's memberships.
func (h *Handler) MemberList(w http.ResponseWriter, r *http.Request) {
	members, err := h.projects.Members(r.Context(), currentUser(r.Context()).ID, chi.URLParam(r, "id"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	out := make([]memberJSON, len(members))
	for i, m := range members {
		out[i] = memberJSON{UserID: m.UserID, Role: string(m.Role), AddedAt: m.AddedAt.UTC().Format(time.RFC3339)}
	}
	respondJSON(w, http.StatusOK, map[string]any{"members": out})
}

type memberAddRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// MemberAdd invites a user to a project by email.
func (h *Handler) MemberAdd(w http.ResponseWriter, r *http.Request) {
	var req memberAddRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	m, err := h.projects.AddMember(r.Context(), currentUser(r.Context()).ID, chi.URLParam(r, "id"),
		req.Email, project.Role(req.Role))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, memberJSON{
		UserID:  m.UserID,
		Role:    string(m.Role),
		AddedAt: m.AddedAt.UTC().Format(time.RFC3339),
	})
}

// MemberRemove removes a membership.
func (h *Handler) MemberRemove(w http.ResponseWriter, r *http.Request) {
	err := h.projects.RemoveMember(r.Context(), currentUser(r.Context()).ID,
		chi.URLParam(r, "id"), chi.URLParam(r, "userID"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
