// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

// AppState is the full persisted application state: the conversation set
// plus the active-conversation pointer.
//
// Invariants (enforced by the store, not by this type): when Conversations
// is non-empty ActiveID references a member, and conversation IDs are
// pairwise distinct. The slice order is the store order used for
// deterministic tie-breaking.
type AppState struct {
	ActiveID      string          `json:"active_id"`
	Conversations []*Conversation `json:"conversations"`
}
