package web

import (
	"net/http"
	"time"

	"github.com/aviatehq/aviate/app"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userJSON struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	PlanID string `json:"planId,omitempty"`
}

type sessionResponse struct {
	Token     string   `json:"token"`
	ExpiresAt string   `json:"expiresAt"`
	User      userJSON `json:"user"`
}

// Signup creates an account and starts a session.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sess, err := h.accounts.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondAppError(w, err)
		return
	}

	h.setSessionCookie(w, sess)
	respondJSON(w, http.StatusCreated, toSessionResponse(sess))
}

// Login verifies credentials and starts a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sess, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondAppError(w, err)
		return
	}

	h.setSessionCookie(w, sess)
	respondJSON(w, http.StatusOK, toSessionResponse(sess))
}

// Logout clears the session cookie. Tokens are stateless, so the bearer
// token stays valid until expiry; clients must discard it.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r.Context())
	respondJSON(w, http.StatusOK, userJSON{ID: u.ID, Email: u.Email, Name: u.Name, PlanID: u.PlanID})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, sess app.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func toSessionResponse(sess app.Session) sessionResponse {
	return sessionResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt.UTC().Format(time.RFC3339),
		User:      userJSON{ID: sess.User.ID, Email: sess.User.Email, Name: sess.User.Name, PlanID: sess.User.PlanID},
	}
}
