// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the in-memory conversation collection and the
// active-conversation pointer, and enforces the state invariants: the
// collection is never empty, the active pointer always references a member,
// and conversation IDs are pairwise distinct.
//
// Every mutating operation persists synchronously through the injected
// persistence port before returning. Persistence failures are logged and
// never surfaced; losing local persistence is not fatal to the session.
package store

import (
	"log"
	"sort"
	"strings"

	"github.com/jeranaias/paperchat/internal/model"
	"github.com/jeranaias/paperchat/internal/persist"
)

// =============================================================================
// STORE
// =============================================================================

// Store owns the application state. It is not safe for concurrent use; the
// TUI event loop is single-threaded and all mutations happen between
// network suspension points.
type Store struct {
	port  persist.Port
	state model.AppState
}

// New loads persisted state through the port, repairs it to satisfy the
// invariants, and returns a ready store. A missing or malformed payload
// starts fresh with one default conversation.
func New(port persist.Port) *Store {
	s := &Store{port: port}
	if loaded, ok := port.LoadState(); ok {
		s.state = *loaded
	}
	if s.repair(model.DefaultQuerySettings()) {
		s.save()
	}
	return s
}

// repair enforces the state invariants: drop duplicate IDs, materialize a
// default conversation when the set is empty, and point ActiveID at a
// member. Returns whether anything changed.
func (s *Store) repair(settings model.QuerySettings) bool {
	changed := false

	seen := make(map[string]bool, len(s.state.Conversations))
	kept := s.state.Conversations[:0]
	for _, conv := range s.state.Conversations {
		if conv == nil || conv.ID == "" || seen[conv.ID] {
			changed = true
			continue
		}
		seen[conv.ID] = true
		kept = append(kept, conv)
	}
	s.state.Conversations = kept

	if len(s.state.Conversations) == 0 {
		conv := model.NewConversationWithSettings(settings)
		s.state.Conversations = []*model.Conversation{conv}
		s.state.ActiveID = conv.ID
		return true
	}

	if s.Get(s.state.ActiveID) == nil {
		s.state.ActiveID = s.state.Conversations[0].ID
		changed = true
	}
	return changed
}

func (s *Store) save() {
	if err := s.port.SaveState(&s.state); err != nil {
		log.Printf("store: persist failed: %v", err)
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Get returns the conversation with the given ID, or nil.
func (s *Store) Get(id string) *model.Conversation {
	for _, conv := range s.state.Conversations {
		if conv.ID == id {
			return conv
		}
	}
	return nil
}

// Active returns the active conversation. The invariants guarantee it
// exists.
func (s *Store) Active() *model.Conversation {
	return s.Get(s.state.ActiveID)
}

// ActiveID returns the active conversation's ID.
func (s *Store) ActiveID() string {
	return s.state.ActiveID
}

// Len returns the number of conversations.
func (s *Store) Len() int {
	return len(s.state.Conversations)
}

// Sorted returns the conversations ranked most-recently-active first:
// UpdatedAt (falling back to CreatedAt) descending, ties broken by store
// order (stable sort, so deterministic).
func (s *Store) Sorted() []*model.Conversation {
	out := make([]*model.Conversation, len(s.state.Conversations))
	copy(out, s.state.Conversations)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastActivity().After(out[j].LastActivity())
	})
	return out
}

// Search returns the sorted conversations whose title or preview contains
// the query, case-insensitive. An empty query returns everything.
func (s *Store) Search(query string) []*model.Conversation {
	all := s.Sorted()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all
	}
	var results []*model.Conversation
	for _, conv := range all {
		if strings.Contains(strings.ToLower(conv.Title), query) ||
			strings.Contains(strings.ToLower(conv.Preview()), query) {
			results = append(results, conv)
		}
	}
	return results
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Create builds a new conversation with default settings and adds it to
// the store. It does not activate it; the caller decides.
func (s *Store) Create() *model.Conversation {
	return s.CreateWithSettings(model.DefaultQuerySettings())
}

// CreateWithSettings is Create with explicit initial settings.
func (s *Store) CreateWithSettings(settings model.QuerySettings) *model.Conversation {
	conv := model.NewConversationWithSettings(settings)
	s.state.Conversations = append(s.state.Conversations, conv)
	s.save()
	return conv
}

// SetActive activates the conversation with the given ID. Unknown IDs are
// a no-op; returns whether the pointer moved.
func (s *Store) SetActive(id string) bool {
	if s.Get(id) == nil {
		return false
	}
	s.state.ActiveID = id
	s.save()
	return true
}

// Rename applies a trimmed, length-capped title. Blank titles are rejected
// and the previous title kept.
func (s *Store) Rename(id, title string) bool {
	conv := s.Get(id)
	if conv == nil {
		return false
	}
	if !conv.Rename(title) {
		return false
	}
	s.save()
	return true
}

// Delete removes a conversation. If the store becomes empty it synthesizes
// a fresh default conversation carrying uiSettings (so in-progress settings
// edits survive) and activates it; if the deleted conversation was active,
// the first remaining conversation in store order becomes active.
func (s *Store) Delete(id string, uiSettings model.QuerySettings) {
	idx := -1
	for i, conv := range s.state.Conversations {
		if conv.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	s.state.Conversations = append(s.state.Conversations[:idx], s.state.Conversations[idx+1:]...)

	if len(s.state.Conversations) == 0 {
		conv := model.NewConversationWithSettings(uiSettings)
		s.state.Conversations = []*model.Conversation{conv}
		s.state.ActiveID = conv.ID
	} else if s.state.ActiveID == id {
		s.state.ActiveID = s.state.Conversations[0].ID
	}
	s.save()
}

// ClearHistory empties a conversation's history, keeping title and
// settings.
func (s *Store) ClearHistory(id string) {
	conv := s.Get(id)
	if conv == nil {
		return
	}
	conv.ClearHistory()
	s.save()
}

// ApplySettings writes a settings snapshot into a conversation. Any edit
// counts as activity, so UpdatedAt is bumped and sidebar ranking may shift.
func (s *Store) ApplySettings(id string, settings model.QuerySettings) {
	conv := s.Get(id)
	if conv == nil {
		return
	}
	conv.Settings = settings.Normalized()
	conv.Touch()
	s.save()
}

// ReplaceHistory reconciles a conversation against the server's canonical
// history. Returns false when the conversation no longer exists (deleted
// while the exchange was in flight); the response is dropped in that case.
func (s *Store) ReplaceHistory(id string, history []model.Message) bool {
	conv := s.Get(id)
	if conv == nil {
		return false
	}
	conv.ReplaceHistory(history)
	s.save()
	return true
}

// =============================================================================
// SIDEBAR PREFERENCE
// =============================================================================

// SidebarCollapsed reads the persisted sidebar preference.
func (s *Store) SidebarCollapsed() bool {
	return s.port.LoadSidebarCollapsed()
}

// SetSidebarCollapsed persists the sidebar preference.
func (s *Store) SetSidebarCollapsed(collapsed bool) {
	s.port.SaveSidebarCollapsed(collapsed)
}
