// Package web provides the HTTP API surface: the public pricing and product
// endpoints the marketing site calls, plus the authenticated workspace API.
// Stateless design - no server-side session storage.
package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/aviatehq/aviate/adapters/auth"
	"github.com/aviatehq/aviate/adapters/metrics"
	"github.com/aviatehq/aviate/app"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SessionCookie is the auth cookie set on login.
const SessionCookie = "aviate_token"

// Handler provides the API endpoints.
type Handler struct {
	pricing  *app.PricingService
	chat     *app.ChatService
	notes    *app.NoteService
	projects *app.ProjectService
	accounts *app.AccountService
	billing  *app.BillingService
	tokens   *auth.TokenService
	metrics  *metrics.Collector
	logger   zerolog.Logger
}

// Deps contains dependencies for the API handler.
type Deps struct {
	Pricing  *app.PricingService
	Chat     *app.ChatService
	Notes    *app.NoteService
	Projects *app.ProjectService
	Accounts *app.AccountService
	Billing  *app.BillingService
	Tokens   *auth.TokenService
	Metrics  *metrics.Collector
	Logger   zerolog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		pricing:  deps.Pricing,
		chat:     deps.Chat,
		notes:    deps.Notes,
		projects: deps.Projects,
		accounts: deps.Accounts,
		billing:  deps.Billing,
		tokens:   deps.Tokens,
		metrics:  deps.Metrics,
		logger:   deps.Logger.With().Str("component", "web").Logger(),
	}
}

// Router returns the API router.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(h.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)

	// Public endpoints. The pricing endpoint is CORS-open because the
	// marketing site fetches it cross-origin.
	r.Group(func(r chi.Router) {
		r.Use(corsOpen)
		r.Get("/api/pricing", h.Pricing)
		r.Get("/api/products", h.Products)
	})

	r.Post("/api/auth/signup", h.Signup)
	r.Post("/api/auth/login", h.Login)
	r.Post("/api/auth/logout", h.Logout)

	// Webhook endpoint authenticates via provider signature, not session.
	r.Post("/api/billing/webhook", h.BillingWebhook)

	// Workspace endpoints (require auth).
	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)

		r.Get("/api/auth/me", h.Me)

		r.Post("/api/chat", h.Chat)
		r.Get("/api/chat/{id}/history", h.ChatHistory)

		r.Get("/api/notes", h.NoteList)
		r.Post("/api/notes", h.NoteCreate)
		r.Get("/api/notes/{id}", h.NoteGet)
		r.Put("/api/notes/{id}", h.NoteUpdate)
		r.Delete("/api/notes/{id}", h.NoteDelete)
		r.Post("/api/notes/{id}/pin", h.NotePin)

		r.Get("/api/projects", h.ProjectList)
		r.Post("/api/projects", h.ProjectCreate)
		r.Get("/api/projects/{id}", h.ProjectGet)
		r.Put("/api/projects/{id}", h.ProjectUpdate)
		r.Delete("/api/projects/{id}", h.ProjectDelete)
		r.Post("/api/projects/{id}/advance", h.ProjectAdvance)
		r.Put("/api/projects/{id}/stage", h.ProjectSetStage)
		r.Get("/api/projects/{id}/members", h.MemberList)
		r.Post("/api/projects/{id}/members", h.MemberAdd)
		r.Delete("/api/projects/{id}/members/{userID}", h.MemberRemove)

		r.Post("/api/billing/checkout", h.BillingCheckout)
		r.Post("/api/billing/cancel", h.BillingCancel)
	})

	// API docs.
	r.Get("/api/openapi.json", h.OpenAPISpec)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/api/openapi.json"),
	))

	return r
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireAuth resolves the caller from a bearer token or the session
// cookie and stores the user in the request context.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			if cookie, err := r.Cookie(SessionCookie); err == nil {
				token = cookie.Value
			}
		}
		if token == "" {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		user, err := h.accounts.Authenticate(r.Context(), token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// corsOpen allows any origin. Only mounted on public read endpoints.
func corsOpen(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request with latency and status.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		h.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("latency", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

// instrument records Prometheus request metrics.
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		h.metrics.RequestsInFlight.Inc()
		defer h.metrics.RequestsInFlight.Dec()

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		h.metrics.ObserveRequest(r.Method, routePattern(r), ww.Status(), time.Since(start))
	})
}

// routePattern returns the chi route pattern so metric labels stay
// low-cardinality (no raw IDs in label values).
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
