// ABOUTME: Store interface and data types for whitelist and binding persistence
// ABOUTME: Defines WhitelistEntry, Binding and the Store interface

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnavailable wraps failures of the underlying database. Callers use it
// to distinguish an unreachable store from an expected miss.
var ErrUnavailable = errors.New("store unavailable")

// ListLimit caps how many whitelist entries a single list call returns.
const ListLimit = 300

// WhitelistEntry is a phone number authorized to register with the bot.
// CreatedAt is set on first insertion and never refreshed.
type WhitelistEntry struct {
	Phone     string
	CreatedAt time.Time
}

// Binding associates an authorized phone key with the chat handle it most
// recently contacted the bot from. Bindings are upserted, never deleted;
// a binding may outlive its whitelist entry.
type Binding struct {
	Phone      string
	ChatHandle string
	UpdatedAt  time.Time
}

// Store is the persistence boundary for the whitelist and binding tables.
// All phone arguments must already be canonical keys; the store does not
// normalize.
type Store interface {
	// PutWhitelistEntry upserts an entry. Re-adding an existing phone is a
	// no-op that preserves the original CreatedAt.
	PutWhitelistEntry(ctx context.Context, phone string) error

	// ListWhitelistEntries returns up to limit entries, newest first.
	// A limit <= 0 or greater than ListLimit is clamped to ListLimit.
	ListWhitelistEntries(ctx context.Context, limit int) ([]WhitelistEntry, error)

	// RemoveWhitelistEntry deletes an entry. Removing an absent phone is
	// not an error.
	RemoveWhitelistEntry(ctx context.Context, phone string) error

	// IsWhitelisted reports whether the phone has a whitelist entry.
	IsWhitelisted(ctx context.Context, phone string) (bool, error)

	// GetBinding returns the binding for a phone, or ErrNotFound.
	GetBinding(ctx context.Context, phone string) (*Binding, error)

	// PutBinding upserts the binding for a phone, overwriting the chat
	// handle and refreshing UpdatedAt. Last writer wins.
	PutBinding(ctx context.Context, phone, chatHandle string) error

	Close() error
}
