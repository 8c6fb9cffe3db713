// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package persist

import (
	"encoding/json"
	"log"

	"github.com/jeranaias/paperchat/internal/model"
)

// Memory is an in-memory Port for tests. It round-trips state through JSON
// so it exercises the same encode/decode path as the SQLite codec, and it
// can simulate write failures.
type Memory struct {
	state   []byte
	sidebar bool

	// SaveErr, when set, is returned from SaveState to simulate storage
	// failure (e.g. quota exhaustion).
	SaveErr error

	// Saves counts successful SaveState calls.
	Saves int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Seed pre-loads a raw state payload, bypassing validation, so tests can
// inject malformed shapes.
func (m *Memory) Seed(raw []byte) {
	m.state = raw
}

// SaveState implements Port.
func (m *Memory) SaveState(state *model.AppState) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	m.state = data
	m.Saves++
	return nil
}

// LoadState implements Port.
func (m *Memory) LoadState() (*model.AppState, bool) {
	if m.state == nil {
		return nil, false
	}
	state, err := DecodeState(m.state)
	if err != nil {
		log.Printf("persist: discarding stored state: %v", err)
		return nil, false
	}
	return state, true
}

// SaveSidebarCollapsed implements Port.
func (m *Memory) SaveSidebarCollapsed(collapsed bool) {
	m.sidebar = collapsed
}

// LoadSidebarCollapsed implements Port.
func (m *Memory) LoadSidebarCollapsed() bool {
	return m.sidebar
}
