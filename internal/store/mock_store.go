// ABOUTME: In-memory Store implementation for tests
// ABOUTME: Supports per-method failure injection to exercise error paths

package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MockStore is an in-memory Store used by tests. The Fail* fields inject an
// ErrUnavailable-wrapped failure into the corresponding method.
type MockStore struct {
	mu        sync.Mutex
	whitelist map[string]time.Time
	bindings  map[string]Binding

	FailWhitelist bool // PutWhitelistEntry / RemoveWhitelistEntry / IsWhitelisted / List
	FailBindings  bool // GetBinding / PutBinding
}

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{
		whitelist: make(map[string]time.Time),
		bindings:  make(map[string]Binding),
	}
}

func (m *MockStore) PutWhitelistEntry(ctx context.Context, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWhitelist {
		return unavailable("inserting whitelist entry", context.DeadlineExceeded)
	}
	if _, exists := m.whitelist[phone]; !exists {
		m.whitelist[phone] = time.Now().UTC()
	}
	return nil
}

func (m *MockStore) ListWhitelistEntries(ctx context.Context, limit int) ([]WhitelistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWhitelist {
		return nil, unavailable("listing whitelist entries", context.DeadlineExceeded)
	}
	if limit <= 0 || limit > ListLimit {
		limit = ListLimit
	}

	entries := make([]WhitelistEntry, 0, len(m.whitelist))
	for phone, createdAt := range m.whitelist {
		entries = append(entries, WhitelistEntry{Phone: phone, CreatedAt: createdAt})
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].Phone > entries[j].Phone
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *MockStore) RemoveWhitelistEntry(ctx context.Context, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWhitelist {
		return unavailable("removing whitelist entry", context.DeadlineExceeded)
	}
	delete(m.whitelist, phone)
	return nil
}

func (m *MockStore) IsWhitelisted(ctx context.Context, phone string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWhitelist {
		return false, unavailable("checking whitelist", context.DeadlineExceeded)
	}
	_, ok := m.whitelist[phone]
	return ok, nil
}

func (m *MockStore) GetBinding(ctx context.Context, phone string) (*Binding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailBindings {
		return nil, unavailable("getting binding", context.DeadlineExceeded)
	}
	b, ok := m.bindings[phone]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (m *MockStore) PutBinding(ctx context.Context, phone, chatHandle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailBindings {
		return unavailable("upserting binding", context.DeadlineExceeded)
	}
	m.bindings[phone] = Binding{Phone: phone, ChatHandle: chatHandle, UpdatedAt: time.Now().UTC()}
	return nil
}

func (m *MockStore) Close() error { return nil }

// SetBinding seeds a binding directly, bypassing the upsert path.
func (m *MockStore) SetBinding(b Binding) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindings[b.Phone] = b
}

// Whitelisted reports the current whitelist contents for assertions.
func (m *MockStore) Whitelisted(phone string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.whitelist[phone]
	return ok
}

// BindingFor returns the stored binding for assertions, or nil.
func (m *MockStore) BindingFor(phone string) *Binding {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bindings[phone]
	if !ok {
		return nil
	}
	return &b
}
