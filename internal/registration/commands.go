// ABOUTME: Bot command handling for inbound chat messages
// ABOUTME: /start greeting plus admin-only /add, /del, /list

package registration

import (
	"context"
	"fmt"
	"strings"

	"github.com/telegate/telegate/internal/phone"
	"github.com/telegate/telegate/internal/telegram"
)

// handleCommand processes a message beginning with "/". Unknown commands
// are ignored like any other non-phone chatter.
func (e *Engine) handleCommand(ctx context.Context, u *telegram.Update, text, chatHandle string) (Outcome, error) {
	fields := strings.Fields(text)
	cmd := strings.ToLower(fields[0])
	// commands in groups arrive as /cmd@botname
	if at := strings.Index(cmd, "@"); at > 0 {
		cmd = cmd[:at]
	}
	args := strings.Join(fields[1:], " ")

	switch cmd {
	case "/start":
		if err := e.dispatcher.Send(ctx, chatHandle, replyGreeting); err != nil {
			return OutcomeCommand, fmt.Errorf("greeting: %w", err)
		}
		return OutcomeCommand, nil
	case "/add":
		return e.adminCommand(ctx, u, chatHandle, func() (string, error) {
			key := phone.Normalize(args)
			if key == "" {
				return replyAddUsage, nil
			}
			if err := e.store.PutWhitelistEntry(ctx, key); err != nil {
				return "", fmt.Errorf("adding %s: %w", key, err)
			}
			return "Added ✅\n" + key, nil
		})
	case "/del":
		return e.adminCommand(ctx, u, chatHandle, func() (string, error) {
			key := phone.Normalize(args)
			if key == "" {
				return replyDelUsage, nil
			}
			if err := e.store.RemoveWhitelistEntry(ctx, key); err != nil {
				return "", fmt.Errorf("removing %s: %w", key, err)
			}
			return "Removed ✅\n" + key, nil
		})
	case "/list":
		return e.adminCommand(ctx, u, chatHandle, func() (string, error) {
			entries, err := e.store.ListWhitelistEntries(ctx, commandListLimit)
			if err != nil {
				return "", fmt.Errorf("listing: %w", err)
			}
			if len(entries) == 0 {
				return replyListEmpty, nil
			}
			var b strings.Builder
			fmt.Fprintf(&b, "Numbers (first %d):\n", commandListLimit)
			for _, entry := range entries {
				b.WriteString("- ")
				b.WriteString(entry.Phone)
				b.WriteString("\n")
			}
			return strings.TrimRight(b.String(), "\n"), nil
		})
	default:
		return OutcomeIgnored, nil
	}
}

// adminCommand gates op behind the configured admin sender IDs, then sends
// its reply. A store failure inside op is reported without any reply.
func (e *Engine) adminCommand(ctx context.Context, u *telegram.Update, chatHandle string, op func() (string, error)) (Outcome, error) {
	sender, ok := u.SenderID()
	if !ok || !e.adminIDs[sender] {
		e.logger.Info("refused admin command", "sender", sender)
		if err := e.dispatcher.Send(ctx, chatHandle, replyNotAllowed); err != nil {
			return OutcomeCommand, fmt.Errorf("refusal notice: %w", err)
		}
		return OutcomeCommand, nil
	}

	reply, err := op()
	if err != nil {
		return OutcomeCommand, err
	}
	if err := e.dispatcher.Send(ctx, chatHandle, reply); err != nil {
		return OutcomeCommand, fmt.Errorf("command reply: %w", err)
	}
	return OutcomeCommand, nil
}
