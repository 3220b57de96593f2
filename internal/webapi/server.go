// ABOUTME: HTTP surface for the admin API and the public Telegram webhook
// ABOUTME: Routes, session gating, and JSON response helpers

package webapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/telegate/telegate/internal/auth"
	"github.com/telegate/telegate/internal/registration"
	"github.com/telegate/telegate/internal/store"
	"github.com/telegate/telegate/internal/telegram"
)

// Machine-readable error kinds returned to admin callers. The webhook path
// never returns any of these; it acknowledges unconditionally.
const (
	kindInvalidPhone       = "invalid_phone"
	kindMessageRequired    = "message_required"
	kindUnauthenticated    = "unauthenticated"
	kindInvalidCredentials = "invalid_credentials"
	kindNotRegistered      = "not_registered"
	kindStoreUnavailable   = "store_unavailable"
	kindDispatchFailed     = "dispatch_failed"
	kindBadRequest         = "bad_request"
	kindInternal           = "internal_error"
)

// Config holds the transport-level knobs of the HTTP surface.
type Config struct {
	// WebhookSecret, when non-empty, must match the webhook's secret query
	// parameter.
	WebhookSecret string
	// GateDashboard requires a session to load the dashboard page itself.
	GateDashboard bool
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
}

// Server wires the admin gateway and webhook gateway onto an http.ServeMux.
// All fields are read-only after construction.
type Server struct {
	sessions   *auth.Sessions
	admin      auth.AdminCredentials
	store      store.Store
	dispatcher telegram.Dispatcher
	engine     *registration.Engine
	config     Config
	logger     *slog.Logger
}

// New creates the HTTP surface over its collaborators.
func New(sessions *auth.Sessions, admin auth.AdminCredentials, st store.Store, d telegram.Dispatcher, engine *registration.Engine, cfg Config) *Server {
	return &Server{
		sessions:   sessions,
		admin:      admin,
		store:      st,
		dispatcher: d,
		engine:     engine,
		config:     cfg,
		logger:     slog.Default().With("component", "webapi"),
	}
}

// RegisterRoutes registers all routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Pages
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})
	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.HandleFunc("GET /dashboard", s.handleDashboardPage)

	// Auth
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)

	// Whitelist management (session required)
	mux.HandleFunc("GET /api/numbers", s.requireAuth(s.handleListNumbers))
	mux.HandleFunc("POST /api/numbers", s.requireAuth(s.handleAddNumber))
	mux.HandleFunc("DELETE /api/numbers/{phone}", s.requireAuth(s.handleRemoveNumber))

	// Manual outbound send (session required)
	mux.HandleFunc("POST /api/send", s.requireAuth(s.handleSend))

	// Public webhook ingress
	mux.HandleFunc("POST /api/telegram/webhook", s.handleWebhook)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	s.logger.Info("routes registered")
}

// requireAuth gates a handler behind a valid session credential. Every
// failure mode is the same uniform 401.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.sessions.AuthenticateRequest(r); err != nil {
			writeError(w, http.StatusUnauthorized, kindUnauthenticated, "")
			return
		}
		next(w, r)
	}
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encoding response", "error", err)
	}
}

// decodeJSON decodes a request body into v, capping the body size.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v)
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// writeError writes a machine-readable error kind with an optional
// human-readable detail. Details never carry configuration values.
func writeError(w http.ResponseWriter, status int, kind, detail string) {
	writeJSON(w, status, errorResponse{Error: kind, Detail: detail})
}
