package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aviatehq/aviate/app"
	"github.com/aviatehq/aviate/domain/workflow"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// respondAppError maps service errors to HTTP statuses. Validation errors
// from domain packages fall through as 400s.
func respondAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, app.ErrForbidden):
		respondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, app.ErrEmailTaken):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, app.ErrBadCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, workflow.ErrFinalStage),
		errors.Is(err, workflow.ErrUnknownProduct),
		errors.Is(err, workflow.ErrUnknownStage):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusBadRequest, err.Error())
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
