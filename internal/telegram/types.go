// ABOUTME: Inbound Telegram webhook update types and payload extraction
// ABOUTME: Mirrors the subset of the Bot API schema the gateway consumes

package telegram

import "strconv"

// Update is one inbound webhook event. Telegram delivers updates at least
// once; UpdateID identifies a delivery for deduplication.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is the text message payload of an update. Most fields of the Bot
// API schema are irrelevant here and left undeclared.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from"`
	Chat      *Chat  `json:"chat"`
	Text      string `json:"text"`
}

// User is the sender of a message.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// Chat is the conversation a message arrived on.
type Chat struct {
	ID int64 `json:"id"`
}

// Payload extracts the text and chat handle from an update. ok is false for
// updates with no text message or no chat — callers terminate with no
// action, since many update types legitimately carry neither.
func (u *Update) Payload() (text, chatHandle string, ok bool) {
	if u == nil || u.Message == nil || u.Message.Text == "" || u.Message.Chat == nil {
		return "", "", false
	}
	return u.Message.Text, strconv.FormatInt(u.Message.Chat.ID, 10), true
}

// SenderID extracts the numeric sender identity, used to recognize admin
// chat commands. ok is false when the update carries no sender.
func (u *Update) SenderID() (int64, bool) {
	if u == nil || u.Message == nil || u.Message.From == nil {
		return 0, false
	}
	return u.Message.From.ID, true
}
