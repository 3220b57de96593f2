// ABOUTME: Registration state machine for inbound webhook updates
// ABOUTME: Normalize, authorize, bind-then-confirm or reject

package registration

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/telegate/telegate/internal/dedupe"
	"github.com/telegate/telegate/internal/phone"
	"github.com/telegate/telegate/internal/store"
	"github.com/telegate/telegate/internal/telegram"
)

// Outcome classifies the result of processing one inbound update.
type Outcome int

const (
	// OutcomeIgnored: no text payload, non-phone chatter, or an internal
	// failure before any state transition.
	OutcomeIgnored Outcome = iota
	// OutcomeDuplicate: the update ID was already processed.
	OutcomeDuplicate
	// OutcomeCommand: the text was handled as a bot command.
	OutcomeCommand
	// OutcomeConfirmed: the number is whitelisted; the binding was recorded.
	OutcomeConfirmed
	// OutcomeRejected: the number is not whitelisted; no store mutation.
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeCommand:
		return "command"
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Reply texts sent back on the conversation.
const (
	replyConfirmed = "You're registered ✅"
	replyRejected  = "This number is not registered ❌"
	replyGreeting  = "Hi 👋 Send your phone number to check whether it's registered.\n\n" +
		"Admins: /add <number>, /del <number>, /list"
	replyNotAllowed  = "You're not allowed to do that ❌"
	replyAddUsage    = "Send the number after the command: /add 01234567890"
	replyDelUsage    = "Send the number after the command: /del 01234567890"
	replyListEmpty   = "No numbers yet."
	commandListLimit = 50
)

// Options configures optional engine collaborators.
type Options struct {
	// Seen drops redelivered updates when set.
	Seen *dedupe.Cache
	// AdminIDs are the sender identities allowed to use whitelist commands
	// from inside a chat.
	AdminIDs []int64
	Logger   *slog.Logger
}

// Engine orchestrates the inbound pipeline: parse, dedupe, normalize,
// authorize, then bind-and-confirm or reject. It holds only immutable
// references and is safe for concurrent use.
type Engine struct {
	store      store.Store
	dispatcher telegram.Dispatcher
	seen       *dedupe.Cache
	adminIDs   map[int64]bool
	logger     *slog.Logger
}

// New creates an engine over the given store and dispatcher.
func New(st store.Store, d telegram.Dispatcher, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	admins := make(map[int64]bool, len(opts.AdminIDs))
	for _, id := range opts.AdminIDs {
		admins[id] = true
	}

	return &Engine{
		store:      st,
		dispatcher: d,
		seen:       opts.Seen,
		adminIDs:   admins,
		logger:     logger.With("component", "registration"),
	}
}

// HandleUpdate runs one inbound update through the pipeline. The returned
// error reports internal store/dispatch failures; the caller decides whether
// to surface it (admin path) or swallow it after logging (webhook path). An
// error never accompanies a state the caller must roll back: a binding is
// only reported as OutcomeConfirmed once durably recorded.
func (e *Engine) HandleUpdate(ctx context.Context, u *telegram.Update) (Outcome, error) {
	text, chatHandle, ok := u.Payload()
	if !ok {
		return OutcomeIgnored, nil
	}

	if e.seen != nil && e.seen.Seen(u.UpdateID) {
		e.logger.Debug("duplicate update dropped", "update_id", u.UpdateID)
		return OutcomeDuplicate, nil
	}

	if strings.HasPrefix(text, "/") {
		return e.handleCommand(ctx, u, text, chatHandle)
	}

	key := phone.Normalize(text)
	if !phone.Plausible(key) {
		// conversational text, not a phone submission
		return OutcomeIgnored, nil
	}

	allowed, err := e.store.IsWhitelisted(ctx, key)
	if err != nil {
		return OutcomeIgnored, fmt.Errorf("authorizing %s: %w", key, err)
	}

	if !allowed {
		e.logger.Info("rejected unregistered number", "phone", key)
		if err := e.dispatcher.Send(ctx, chatHandle, replyRejected); err != nil {
			return OutcomeRejected, fmt.Errorf("rejection notice: %w", err)
		}
		return OutcomeRejected, nil
	}

	// The binding must be durable before the confirmation goes out: a
	// delivery failure must never leave an authorized contact unbound.
	if err := e.store.PutBinding(ctx, key, chatHandle); err != nil {
		return OutcomeIgnored, fmt.Errorf("binding %s: %w", key, err)
	}

	e.logger.Info("bound registered number", "phone", key, "chat", chatHandle)
	if err := e.dispatcher.Send(ctx, chatHandle, replyConfirmed); err != nil {
		return OutcomeConfirmed, fmt.Errorf("confirmation notice: %w", err)
	}
	return OutcomeConfirmed, nil
}
