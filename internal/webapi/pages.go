// ABOUTME: Embedded login and dashboard pages
// ABOUTME: Dashboard delivery is session-gated when configured

package webapi

import (
	"embed"
	"net/http"
)

//go:embed pages/login.html pages/dashboard.html
var pagesFS embed.FS

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.servePage(w, "pages/login.html")
}

// handleDashboardPage serves the dashboard. When gating is enabled, a
// request without a valid session is redirected to the login page; the APIs
// behind the dashboard are gated regardless.
func (s *Server) handleDashboardPage(w http.ResponseWriter, r *http.Request) {
	if s.config.GateDashboard {
		if _, err := s.sessions.AuthenticateRequest(r); err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
	}
	s.servePage(w, "pages/dashboard.html")
}

func (s *Server) servePage(w http.ResponseWriter, name string) {
	data, err := pagesFS.ReadFile(name)
	if err != nil {
		http.Error(w, "page not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(data)
}
