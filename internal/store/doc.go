// Package store persists the whitelist of authorized phone numbers and the
// bindings from phone keys to chat handles. Both tables are keyed by the
// canonical phone string; every mutation is an idempotent upsert or delete,
// so concurrent requests need no locking beyond the database's own per-key
// write serialization.
package store
