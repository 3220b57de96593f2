// ABOUTME: Webhook gateway: public ingress for Telegram update deliveries
// ABOUTME: Always acknowledges with 200 so the transport never redelivers

package webapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/telegate/telegate/internal/telegram"
)

// handleWebhook processes one inbound update. Internal failures — malformed
// payloads, store outages, dispatch refusals — are logged and absorbed into
// the same success acknowledgment: a non-2xx response would make Telegram
// redeliver the update indefinitely. The only pre-acknowledgment refusal is
// the shared-secret check, which authenticates the transport itself.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if s.config.WebhookSecret != "" && r.URL.Query().Get("secret") != s.config.WebhookSecret {
		writeError(w, http.StatusUnauthorized, kindUnauthenticated, "")
		return
	}

	requestID := uuid.NewString()
	logger := s.logger.With("request_id", requestID)

	var update telegram.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&update); err != nil {
		logger.Warn("malformed webhook payload", "error", err)
		s.acknowledge(w)
		return
	}

	outcome, err := s.engine.HandleUpdate(r.Context(), &update)
	if err != nil {
		logger.Error("webhook processing failed", "update_id", update.UpdateID, "outcome", outcome.String(), "error", err)
	} else {
		logger.Debug("webhook processed", "update_id", update.UpdateID, "outcome", outcome.String())
	}

	s.acknowledge(w)
}

// acknowledge is the unconditional webhook success response.
func (s *Server) acknowledge(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
