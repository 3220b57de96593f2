// ABOUTME: Unit tests for update payload extraction
// ABOUTME: Covers text-less updates and chat handle formatting

package telegram

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdate_Payload(t *testing.T) {
	tests := []struct {
		name       string
		update     *Update
		wantText   string
		wantHandle string
		wantOK     bool
	}{
		{
			name: "text message",
			update: &Update{
				UpdateID: 1,
				Message:  &Message{Chat: &Chat{ID: 42}, Text: "hello"},
			},
			wantText:   "hello",
			wantHandle: "42",
			wantOK:     true,
		},
		{
			name: "negative chat id (group)",
			update: &Update{
				Message: &Message{Chat: &Chat{ID: -100123}, Text: "hi"},
			},
			wantText:   "hi",
			wantHandle: "-100123",
			wantOK:     true,
		},
		{
			name:   "no message",
			update: &Update{UpdateID: 2},
			wantOK: false,
		},
		{
			name:   "no text",
			update: &Update{Message: &Message{Chat: &Chat{ID: 42}}},
			wantOK: false,
		},
		{
			name:   "no chat",
			update: &Update{Message: &Message{Text: "hello"}},
			wantOK: false,
		},
		{
			name:   "nil update",
			update: nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, handle, ok := tt.update.Payload()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantHandle, handle)
		})
	}
}

func TestUpdate_SenderID(t *testing.T) {
	u := &Update{Message: &Message{From: &User{ID: 99}}}
	id, ok := u.SenderID()
	assert.True(t, ok)
	assert.Equal(t, int64(99), id)

	_, ok = (&Update{}).SenderID()
	assert.False(t, ok)
}

func TestUpdate_DecodesBotAPIPayload(t *testing.T) {
	raw := `{
		"update_id": 728191,
		"message": {
			"message_id": 17,
			"from": {"id": 555, "username": "someone", "first_name": "Some"},
			"chat": {"id": 555},
			"text": "+1 (234) 567-8900"
		}
	}`

	var u Update
	require.NoError(t, json.Unmarshal([]byte(raw), &u))

	text, handle, ok := u.Payload()
	require.True(t, ok)
	assert.Equal(t, "+1 (234) 567-8900", text)
	assert.Equal(t, "555", handle)
	assert.Equal(t, int64(728191), u.UpdateID)
}
