// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strconv"
	"strings"
)

// Message roles. The RAG server only ever produces these two.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one turn of a conversation. Contexts is present only on
// assistant messages, and only when retrieval context was requested and
// the server returned any.
type Message struct {
	Role     string           `json:"role"`
	Content  string           `json:"content"`
	Contexts []ContextSnippet `json:"contexts,omitempty"`
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string, contexts []ContextSnippet) Message {
	return Message{Role: RoleAssistant, Content: content, Contexts: contexts}
}

// IsUser reports whether the message is a user turn.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// =============================================================================
// CONTEXT SNIPPETS
// =============================================================================

// ContextSnippet is a retrieved passage returned alongside an assistant
// reply. The payload is opaque: the client displays Text but never
// interprets it.
type ContextSnippet struct {
	ID       string          `json:"id,omitempty"`
	Text     string          `json:"text"`
	Metadata SnippetMetadata `json:"metadata,omitempty"`
}

// SnippetMetadata carries best-effort provenance for a snippet. All fields
// are optional; the server populates whatever its chunker recorded.
type SnippetMetadata struct {
	Source  string `json:"source,omitempty"`
	PaperID string `json:"paper_id,omitempty"`
	Section string `json:"section,omitempty"`
	ChunkID string `json:"chunk_id,omitempty"`
}

// Label builds a display label for the snippet at the given position
// (zero-based). Preference order: metadata source, then paper id, then a
// positional "Source N" fallback. Section and chunk identifiers are
// appended when present.
func (s ContextSnippet) Label(position int) string {
	head := s.Metadata.Source
	if head == "" {
		head = s.Metadata.PaperID
	}
	if head == "" {
		head = "Source " + strconv.Itoa(position+1)
	}

	parts := []string{head}
	if s.Metadata.Section != "" {
		parts = append(parts, s.Metadata.Section)
	}
	if s.Metadata.ChunkID != "" {
		parts = append(parts, s.Metadata.ChunkID)
	}
	return strings.Join(parts, " · ")
}
