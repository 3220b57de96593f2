// ABOUTME: Tests for the registration pipeline over a mock store
// ABOUTME: Covers ignore/confirm/reject paths, bind-before-notify, and dedupe

package registration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telegate/telegate/internal/dedupe"
	"github.com/telegate/telegate/internal/store"
	"github.com/telegate/telegate/internal/telegram"
)

// fakeDispatcher records outbound sends and can fail on demand.
type fakeDispatcher struct {
	mu    sync.Mutex
	sends []sentMessage
	fail  error
}

type sentMessage struct {
	ChatHandle string
	Text       string
}

func (f *fakeDispatcher) Send(_ context.Context, chatHandle, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.sends = append(f.sends, sentMessage{ChatHandle: chatHandle, Text: text})
	return nil
}

func (f *fakeDispatcher) sent() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sends...)
}

func textUpdate(id int64, sender int64, chatID int64, text string) *telegram.Update {
	return &telegram.Update{
		UpdateID: id,
		Message: &telegram.Message{
			From: &telegram.User{ID: sender},
			Chat: &telegram.Chat{ID: chatID},
			Text: text,
		},
	}
}

func TestEngine_IgnoresUpdatesWithoutText(t *testing.T) {
	st := store.NewMockStore()
	d := &fakeDispatcher{}
	e := New(st, d, Options{})

	tests := []struct {
		name   string
		update *telegram.Update
	}{
		{"no message", &telegram.Update{UpdateID: 1}},
		{"no text", &telegram.Update{UpdateID: 2, Message: &telegram.Message{Chat: &telegram.Chat{ID: 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := e.HandleUpdate(context.Background(), tt.update)
			require.NoError(t, err)
			assert.Equal(t, OutcomeIgnored, outcome)
		})
	}
	assert.Empty(t, d.sent())
}

func TestEngine_IgnoresNonPhoneChatter(t *testing.T) {
	st := store.NewMockStore()
	d := &fakeDispatcher{}
	e := New(st, d, Options{})

	tests := []string{
		"hello how are you",
		"123456",   // below the 7 digit floor
		"call me!", // no digits
	}

	for _, text := range tests {
		outcome, err := e.HandleUpdate(context.Background(), textUpdate(1, 10, 10, text))
		require.NoError(t, err)
		assert.Equal(t, OutcomeIgnored, outcome, "text %q", text)
	}

	// no store action, no dispatch
	assert.Empty(t, d.sent())
	assert.Nil(t, st.BindingFor("123456"))
}

func TestEngine_ConfirmsWhitelistedNumber(t *testing.T) {
	st := store.NewMockStore()
	d := &fakeDispatcher{}
	e := New(st, d, Options{})
	ctx := context.Background()

	require.NoError(t, st.PutWhitelistEntry(ctx, "12345678900"))

	outcome, err := e.HandleUpdate(ctx, textUpdate(1, 42, 42, "+1 (234) 567-8900"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, outcome)

	b := st.BindingFor("12345678900")
	require.NotNil(t, b)
	assert.Equal(t, "42", b.ChatHandle)

	sends := d.sent()
	require.Len(t, sends, 1)
	assert.Equal(t, "42", sends[0].ChatHandle)
	assert.Equal(t, replyConfirmed, sends[0].Text)
}

func TestEngine_RebindOverwritesChatHandle(t *testing.T) {
	st := store.NewMockStore()
	d := &fakeDispatcher{}
	e := New(st, d, Options{})
	ctx := context.Background()

	require.NoError(t, st.PutWhitelistEntry(ctx, "12345678900"))

	_, err := e.HandleUpdate(ctx, textUpdate(1, 42, 42, "12345678900"))
	require.NoError(t, err)
	_, err = e.HandleUpdate(ctx, textUpdate(2, 77, 77, "12345678900"))
	require.NoError(t, err)

	// last writer wins
	b := st.BindingFor("12345678900")
	require.NotNil(t, b)
	assert.Equal(t, "77", b.ChatHandle)
}

func TestEngine_RejectsUnregisteredNumber(t *testing.T) {
	st := store.NewMockStore()
	d := &fakeDispatcher{}
	e := New(st, d, Options{})

	outcome, err := e.HandleUpdate(context.Background(), textUpdate(1, 42, 42, "98765432100"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, outcome)

	// no binding for unauthorized numbers
	assert.Nil(t, st.BindingFor("98765432100"))

	sends := d.sent()
	require.Len(t, sends, 1)
	assert.Equal(t, replyRejected, sends[0].Text)
}

func TestEngine_BindsBeforeNotifying(t *testing.T) {
	st := store.NewMockStore()
	d := &fakeDispatcher{fail: errors.New("chat unreachable")}
	e := New(st, d, Options{})
	ctx := context.Background()

	require.NoError(t, st.PutWhitelistEntry(ctx, "12345678900"))

	outcome, err := e.HandleUpdate(ctx, textUpdate(1, 42, 42, "12345678900"))
	require.Error(t, err)
	assert.Equal(t, OutcomeConfirmed, outcome)

	// delivery failed but the binding is durable
	b := st.BindingFor("12345678900")
	require.NotNil(t, b)
	assert.Equal(t, "42", b.ChatHandle)
}

func TestEngine_BindingFailureSkipsNotification(t *testing.T) {
	st := store.NewMockStore()
	st.FailBindings = true
	d := &fakeDispatcher{}
	e := New(st, d, Options{})
	ctx := context.Background()

	require.NoError(t, st.PutWhitelistEntry(ctx, "12345678900"))

	outcome, err := e.HandleUpdate(ctx, textUpdate(1, 42, 42, "12345678900"))
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.Equal(t, OutcomeIgnored, outcome)
	assert.Empty(t, d.sent())
}

func TestEngine_AuthorizeFailureSurfaces(t *testing.T) {
	st := store.NewMockStore()
	st.FailWhitelist = true
	d := &fakeDispatcher{}
	e := New(st, d, Options{})

	_, err := e.HandleUpdate(context.Background(), textUpdate(1, 42, 42, "12345678900"))
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.Empty(t, d.sent())
}

func TestEngine_DropsDuplicateUpdates(t *testing.T) {
	st := store.NewMockStore()
	d := &fakeDispatcher{}
	seen := dedupe.New(time.Minute, 100)
	defer seen.Close()
	e := New(st, d, Options{Seen: seen})
	ctx := context.Background()

	require.NoError(t, st.PutWhitelistEntry(ctx, "12345678900"))

	outcome, err := e.HandleUpdate(ctx, textUpdate(7, 42, 42, "12345678900"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, outcome)

	outcome, err = e.HandleUpdate(ctx, textUpdate(7, 42, 42, "12345678900"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, outcome)

	// exactly one confirmation went out
	assert.Len(t, d.sent(), 1)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "ignored", OutcomeIgnored.String())
	assert.Equal(t, "duplicate", OutcomeDuplicate.String())
	assert.Equal(t, "command", OutcomeCommand.String())
	assert.Equal(t, "confirmed", OutcomeConfirmed.String())
	assert.Equal(t, "rejected", OutcomeRejected.String())
}
