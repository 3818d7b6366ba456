package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// sessionKey identifies the single session record in the store.
const sessionKey = "session"

// Store defines persistence for the session record.
//
// Load returns (nil, nil) when no record exists or the stored content is
// malformed: a broken record is indistinguishable from no session.
type Store interface {
	Load() (*Record, error)
	Save(record *Record) error
	Clear() error
}

// SQLiteStore implements [Store] on a SQLite key-value table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates the backing table if needed and returns the store.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	query := `
		CREATE TABLE IF NOT EXISTS sessions (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load reads and deserializes the persisted record.
func (s *SQLiteStore) Load() (*Record, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM sessions WHERE key = ?", sessionKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var record Record
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		// Malformed content is treated as no session.
		return nil, nil
	}

	return &record, nil
}

// Save serializes and persists the full record, replacing any prior one.
func (s *SQLiteStore) Save(record *Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	query := `
		INSERT INTO sessions (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.Exec(query, sessionKey, string(data)); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	return nil
}

// Clear deletes the persisted record unconditionally.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM sessions WHERE key = ?", sessionKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
