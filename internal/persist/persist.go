// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package persist

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/paperchat/internal/model"
)

// Storage keys. The application state and the sidebar preference are
// independent records with independent lifecycles.
const (
	stateKey   = "app_state"
	sidebarKey = "sidebar_collapsed"
)

// Schema for the key-value store backing client-local persistence.
const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key   TEXT PRIMARY KEY,
    value BLOB NOT NULL
) WITHOUT ROWID;
`

// =============================================================================
// PORT
// =============================================================================

// Port is the persistence boundary the conversation store writes through.
type Port interface {
	// SaveState persists the full application state. Callers log failures
	// and move on; a failed write is never surfaced to the user and never
	// retried.
	SaveState(state *model.AppState) error

	// LoadState reads the persisted state. The second return is false when
	// no usable state exists: missing record, malformed payload, or a
	// conversations field that is not a sequence.
	LoadState() (*model.AppState, bool)

	// SaveSidebarCollapsed and LoadSidebarCollapsed never fail the caller,
	// even when storage is unavailable.
	SaveSidebarCollapsed(collapsed bool)
	LoadSidebarCollapsed() bool
}

// =============================================================================
// SQLITE CODEC
// =============================================================================

// Codec is the SQLite-backed Port implementation.
type Codec struct {
	db *sql.DB
}

// Open opens (or creates) the state database at path.
func Open(path string) (*Codec, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize state schema: %w", err)
	}

	return &Codec{db: db}, nil
}

// Close closes the underlying database.
func (c *Codec) Close() error {
	return c.db.Close()
}

func (c *Codec) get(key string) ([]byte, bool) {
	var value []byte
	err := c.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("persist: read %q: %v", key, err)
		}
		return nil, false
	}
	return value, true
}

func (c *Codec) put(key string, value []byte) error {
	_, err := c.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// =============================================================================
// APPLICATION STATE
// =============================================================================

// SaveState serializes the full application state under the state key.
func (c *Codec) SaveState(state *model.AppState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := c.put(stateKey, data); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}

// LoadState reads and validates the persisted application state.
func (c *Codec) LoadState() (*model.AppState, bool) {
	raw, ok := c.get(stateKey)
	if !ok {
		return nil, false
	}
	state, err := DecodeState(raw)
	if err != nil {
		log.Printf("persist: discarding stored state: %v", err)
		return nil, false
	}
	return state, true
}

// DecodeState validates a stored state payload. The payload must be a JSON
// object whose conversations field is a sequence; anything else fails
// closed so the caller initializes fresh instead of trusting the shape.
func DecodeState(raw []byte) (*model.AppState, error) {
	var probe struct {
		ActiveID      string          `json:"active_id"`
		Conversations json.RawMessage `json:"conversations"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("malformed state payload: %w", err)
	}
	if !isJSONArray(probe.Conversations) {
		return nil, fmt.Errorf("conversations is not a sequence")
	}

	var conversations []*model.Conversation
	if err := json.Unmarshal(probe.Conversations, &conversations); err != nil {
		return nil, fmt.Errorf("malformed conversations: %w", err)
	}

	return &model.AppState{
		ActiveID:      probe.ActiveID,
		Conversations: conversations,
	}, nil
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "[")
}

// =============================================================================
// SIDEBAR PREFERENCE
// =============================================================================

// SaveSidebarCollapsed writes the sidebar preference. Failures are logged
// only; losing a UI preference is not worth interrupting the user.
func (c *Codec) SaveSidebarCollapsed(collapsed bool) {
	if err := c.put(sidebarKey, []byte(strconv.FormatBool(collapsed))); err != nil {
		log.Printf("persist: write sidebar preference: %v", err)
	}
}

// LoadSidebarCollapsed reads the sidebar preference, defaulting to false.
func (c *Codec) LoadSidebarCollapsed() bool {
	raw, ok := c.get(sidebarKey)
	if !ok {
		return false
	}
	collapsed, err := strconv.ParseBool(string(raw))
	if err != nil {
		return false
	}
	return collapsed
}
