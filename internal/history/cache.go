// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history provides a local, free-plan message cache.
//
// Paid plans get server-side history through the backend; the free plan does
// not, so the client keeps its own copy. The cache is keyed by the session
// identity and survives restarts, giving free users continuity without any
// account.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/longopass/longo-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrCacheClosed   = errors.New("history cache is closed")
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// SCHEMA
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, id);
`

// =============================================================================
// CACHE
// =============================================================================

// Config holds history cache configuration.
type Config struct {
	// DatabasePath is where to store the SQLite database.
	DatabasePath string

	// MaxEntries is the maximum number of messages kept per session.
	// Older messages are pruned first. Zero means DefaultMaxEntries.
	MaxEntries int

	// Plan is the active plan. Only the free plan reads or writes the cache.
	Plan model.Plan
}

// DefaultMaxEntries bounds the per-session cache so an unbounded free-tier
// conversation cannot grow the database forever.
const DefaultMaxEntries = 200

// Cache is a local message store for free-plan sessions.
type Cache struct {
	db   *sql.DB
	plan model.Plan
	max  int

	mu     sync.Mutex
	closed bool
}

// Open opens (creating if necessary) the history cache.
func Open(config *Config) (*Cache, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}
	if config.DatabasePath == "" {
		return nil, errors.New("database path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(config.DatabasePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	max := config.MaxEntries
	if max <= 0 {
		max = DefaultMaxEntries
	}

	return &Cache{db: db, plan: config.Plan, max: max}, nil
}

// Close closes the cache and releases the database.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.db.Close()
}

// Enabled reports whether the cache is active for the configured plan.
func (c *Cache) Enabled() bool {
	return c.plan == model.PlanFree
}

// Append stores a message under the given session identity. Paid plans are a
// no-op: their history lives on the backend and a local copy would only go
// stale.
func (c *Cache) Append(sessionID string, msg model.Message) error {
	if !c.Enabled() {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO messages (session_id, role, content, created_at)
		VALUES (?, ?, ?, ?)
	`, sessionID, string(msg.Role), msg.Content, msg.Timestamp.Unix())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	// Keep only the newest max entries for this session.
	_, err = tx.Exec(`
		DELETE FROM messages
		WHERE session_id = ?
		  AND id NOT IN (
			SELECT id FROM messages WHERE session_id = ? ORDER BY id DESC LIMIT ?
		  )
	`, sessionID, sessionID, c.max)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	return tx.Commit()
}

// Read returns the cached messages for a session in insertion order. Paid
// plans always get an empty slice.
func (c *Cache) Read(sessionID string) ([]model.Message, error) {
	if !c.Enabled() {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrCacheClosed
	}

	rows, err := c.db.Query(`
		SELECT role, content, created_at
		FROM messages
		WHERE session_id = ?
		ORDER BY id ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		var role, content string
		var createdAt int64
		if err := rows.Scan(&role, &content, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		msgs = append(msgs, model.Message{
			Role:      model.Role(role),
			Content:   content,
			Timestamp: time.Unix(createdAt, 0),
		})
	}
	return msgs, rows.Err()
}

// Clear removes all cached messages for a session.
func (c *Cache) Clear(sessionID string) error {
	if !c.Enabled() {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}

	if _, err := c.db.Exec("DELETE FROM messages WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// Count returns the number of cached messages for a session.
func (c *Cache) Count(sessionID string) (int, error) {
	if !c.Enabled() {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrCacheClosed
	}

	var n int
	err := c.db.QueryRow("SELECT COUNT(*) FROM messages WHERE session_id = ?", sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return n, nil
}
