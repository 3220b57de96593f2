// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides whitelist/binding persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path. The schema is
// automatically created if it doesn't exist. Parent directories are created
// if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist.
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS whitelist (
			phone TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_whitelist_created
			ON whitelist(created_at);

		CREATE TABLE IF NOT EXISTS bindings (
			phone TEXT PRIMARY KEY,
			chat_handle TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// unavailable tags a database failure with ErrUnavailable so callers can
// classify it without inspecting driver error strings.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}

// PutWhitelistEntry inserts the phone if absent. Conflicts are ignored so a
// repeated add keeps the original created_at.
func (s *SQLiteStore) PutWhitelistEntry(ctx context.Context, phone string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO whitelist (phone, created_at) VALUES (?, ?)
		ON CONFLICT(phone) DO NOTHING
	`, phone, time.Now().UTC())
	if err != nil {
		return unavailable("inserting whitelist entry", err)
	}
	return nil
}

// ListWhitelistEntries returns entries newest first, capped at ListLimit.
func (s *SQLiteStore) ListWhitelistEntries(ctx context.Context, limit int) ([]WhitelistEntry, error) {
	if limit <= 0 || limit > ListLimit {
		limit = ListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT phone, created_at FROM whitelist
		ORDER BY created_at DESC, phone DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, unavailable("listing whitelist entries", err)
	}
	defer rows.Close()

	var entries []WhitelistEntry
	for rows.Next() {
		var e WhitelistEntry
		if err := rows.Scan(&e.Phone, &e.CreatedAt); err != nil {
			return nil, unavailable("scanning whitelist entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterating whitelist entries", err)
	}
	return entries, nil
}

// RemoveWhitelistEntry deletes the phone. Deleting an absent row succeeds.
func (s *SQLiteStore) RemoveWhitelistEntry(ctx context.Context, phone string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM whitelist WHERE phone = ?`, phone)
	if err != nil {
		return unavailable("removing whitelist entry", err)
	}
	return nil
}

// IsWhitelisted probes for the existence of a whitelist entry.
func (s *SQLiteStore) IsWhitelisted(ctx context.Context, phone string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM whitelist WHERE phone = ?`, phone).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, unavailable("checking whitelist", err)
	}
	return true, nil
}

// GetBinding returns the binding for a phone, or ErrNotFound.
func (s *SQLiteStore) GetBinding(ctx context.Context, phone string) (*Binding, error) {
	var b Binding
	err := s.db.QueryRowContext(ctx, `
		SELECT phone, chat_handle, updated_at FROM bindings WHERE phone = ?
	`, phone).Scan(&b.Phone, &b.ChatHandle, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("getting binding", err)
	}
	return &b, nil
}

// PutBinding upserts the binding for a phone. Only the chat handle and
// updated_at change on conflict; last writer wins.
func (s *SQLiteStore) PutBinding(ctx context.Context, phone, chatHandle string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bindings (phone, chat_handle, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(phone) DO UPDATE SET
			chat_handle = excluded.chat_handle,
			updated_at = excluded.updated_at
	`, phone, chatHandle, time.Now().UTC())
	if err != nil {
		return unavailable("upserting binding", err)
	}
	return nil
}
