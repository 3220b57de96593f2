// ABOUTME: Admin gateway handlers: login/logout, whitelist CRUD, manual send
// ABOUTME: Each error kind maps to a distinct, informative response

package webapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/telegate/telegate/internal/auth"
	"github.com/telegate/telegate/internal/phone"
	"github.com/telegate/telegate/internal/store"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	OK    bool   `json:"ok"`
	Token string `json:"token"`
}

// handleLogin checks the supplied pair against the configured admin
// credentials and, on success, issues a session credential both as the
// response body token and as a cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindBadRequest, "malformed JSON body")
		return
	}

	if err := s.admin.Check(req.Username, req.Password); err != nil {
		s.logger.Info("login rejected", "username", req.Username)
		writeError(w, http.StatusUnauthorized, kindInvalidCredentials, "")
		return
	}

	token, err := s.sessions.Issue(auth.Claims{Role: "admin", Subject: req.Username})
	if err != nil {
		s.logger.Error("issuing session credential", "error", err)
		writeError(w, http.StatusInternalServerError, kindInternal, "")
		return
	}

	s.setSessionCookie(w, token, auth.SessionDuration)
	writeJSON(w, http.StatusOK, loginResponse{OK: true, Token: token})
}

// handleLogout clears the session cookie. The authenticator is stateless,
// so logout is purely a client-side credential discard; it always succeeds.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.setSessionCookie(w, "", -time.Second)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

type numberItem struct {
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}

// handleListNumbers returns whitelist entries, newest first, capped at the
// store's list limit.
func (s *Server) handleListNumbers(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.ListWhitelistEntries(r.Context(), store.ListLimit)
	if err != nil {
		s.logger.Error("listing whitelist", "error", err)
		writeError(w, http.StatusServiceUnavailable, kindStoreUnavailable, "")
		return
	}

	items := make([]numberItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, numberItem{
			Phone:     e.Phone,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

type addNumberRequest struct {
	Phone string `json:"phone"`
}

func (s *Server) handleAddNumber(w http.ResponseWriter, r *http.Request) {
	var req addNumberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindBadRequest, "malformed JSON body")
		return
	}

	key := phone.Normalize(req.Phone)
	if key == "" {
		writeError(w, http.StatusBadRequest, kindInvalidPhone, "phone must contain digits")
		return
	}

	if err := s.store.PutWhitelistEntry(r.Context(), key); err != nil {
		s.logger.Error("adding whitelist entry", "phone", key, "error", err)
		writeError(w, http.StatusServiceUnavailable, kindStoreUnavailable, "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "phone": key})
}

func (s *Server) handleRemoveNumber(w http.ResponseWriter, r *http.Request) {
	key := phone.Normalize(r.PathValue("phone"))
	if key == "" {
		writeError(w, http.StatusBadRequest, kindInvalidPhone, "phone must contain digits")
		return
	}

	if err := s.store.RemoveWhitelistEntry(r.Context(), key); err != nil {
		s.logger.Error("removing whitelist entry", "phone", key, "error", err)
		writeError(w, http.StatusServiceUnavailable, kindStoreUnavailable, "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type sendRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// handleSend delivers a manual message to the chat handle bound to a phone.
// Unlike the webhook path, dispatch failures are surfaced: a human is
// waiting for the result.
func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindBadRequest, "malformed JSON body")
		return
	}

	key := phone.Normalize(req.Phone)
	if key == "" {
		writeError(w, http.StatusBadRequest, kindInvalidPhone, "phone must contain digits")
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, kindMessageRequired, "message must not be empty")
		return
	}

	binding, err := s.store.GetBinding(r.Context(), key)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, kindNotRegistered,
			"this number has never contacted the bot, so there is no chat to deliver to")
		return
	}
	if err != nil {
		s.logger.Error("looking up binding", "phone", key, "error", err)
		writeError(w, http.StatusServiceUnavailable, kindStoreUnavailable, "")
		return
	}
	if binding.ChatHandle == "" {
		writeError(w, http.StatusNotFound, kindNotRegistered, "binding has no chat handle")
		return
	}

	if err := s.dispatcher.Send(r.Context(), binding.ChatHandle, message); err != nil {
		s.logger.Warn("manual send failed", "phone", key, "error", err)
		writeError(w, http.StatusBadGateway, kindDispatchFailed, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
