// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

const (
	// TitleSentinel is the title a conversation carries until one is derived
	// from its first exchange or set by the user.
	TitleSentinel = "New chat"

	// MaxTitleLen caps user-supplied titles, in runes.
	MaxTitleLen = 80

	// PreviewLen is the length of sidebar preview text, in runes.
	PreviewLen = 60

	// EmptyPreview is shown for conversations with no messages.
	EmptyPreview = "No messages yet"

	// autoTitleWords is how many words an auto-derived title keeps.
	autoTitleWords = 6
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is one independent chat session with its own history, title,
// and retrieval settings.
//
// History is append-only from the application's point of view, but any
// successful exchange may replace it wholesale with the server's canonical
// version (see ReplaceHistory).
type Conversation struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	History   []Message     `json:"history"`
	Settings  QuerySettings `json:"settings"`
}

// NewConversation creates a conversation with a fresh ID, the sentinel
// title, empty history, and default settings.
func NewConversation() *Conversation {
	return NewConversationWithSettings(DefaultQuerySettings())
}

// NewConversationWithSettings creates a conversation carrying the given
// settings. Used when the store self-heals, so in-progress settings edits
// are not silently discarded.
func NewConversationWithSettings(settings QuerySettings) *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        uuid.NewString(),
		Title:     TitleSentinel,
		CreatedAt: now,
		UpdatedAt: now,
		History:   []Message{},
		Settings:  settings.Normalized(),
	}
}

// Touch refreshes the updated timestamp.
func (c *Conversation) Touch() {
	c.UpdatedAt = time.Now()
}

// LastActivity returns the ranking timestamp for sidebar ordering:
// UpdatedAt, falling back to CreatedAt when unset.
func (c *Conversation) LastActivity() time.Time {
	if c.UpdatedAt.IsZero() {
		return c.CreatedAt
	}
	return c.UpdatedAt
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// Rename trims and caps the new title. A title that is blank after trimming
// is rejected and the previous title kept; returns whether the rename took.
func (c *Conversation) Rename(title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}
	runes := []rune(title)
	if len(runes) > MaxTitleLen {
		title = string(runes[:MaxTitleLen])
	}
	c.Title = title
	c.Touch()
	return true
}

// maybeAutoTitle derives a title from the first user message, once, after
// the conversation has at least one full exchange.
func (c *Conversation) maybeAutoTitle() {
	if c.Title != TitleSentinel || len(c.History) < 2 {
		return
	}
	for _, msg := range c.History {
		if msg.IsUser() {
			c.Title = AutoTitle(msg.Content)
			return
		}
	}
}

// AutoTitle derives a conversation title from message content: lowercased,
// punctuation stripped, whitespace collapsed, capped at six words, first
// letter capitalized. Empty input falls back to the sentinel.
func AutoTitle(content string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(content) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	words := strings.Fields(b.String())
	if len(words) > autoTitleWords {
		words = words[:autoTitleWords]
	}
	title := strings.Join(words, " ")
	if title == "" {
		return TitleSentinel
	}

	runes := []rune(title)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// =============================================================================
// HISTORY MANAGEMENT
// =============================================================================

// ReplaceHistory swaps in the server's canonical history for this
// conversation and derives a title if one is due. The server is the source
// of truth for the final transcript, including any normalization it
// performs.
func (c *Conversation) ReplaceHistory(history []Message) {
	if history == nil {
		history = []Message{}
	}
	c.History = history
	c.Touch()
	c.maybeAutoTitle()
}

// ClearHistory resets the history to empty. Title and settings are kept.
func (c *Conversation) ClearHistory() {
	c.History = []Message{}
	c.Touch()
}

// HistorySnapshot returns a copy of the message sequence, safe to hand to
// an in-flight request while the live history keeps mutating.
func (c *Conversation) HistorySnapshot() []Message {
	snapshot := make([]Message, len(c.History))
	copy(snapshot, c.History)
	return snapshot
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.History) == 0 {
		return nil
	}
	return &c.History[len(c.History)-1]
}

// Preview returns the sidebar preview text: the leading portion of the
// last message's content, or a placeholder when the history is empty.
func (c *Conversation) Preview() string {
	last := c.LastMessage()
	if last == nil {
		return EmptyPreview
	}
	text := strings.Join(strings.Fields(last.Content), " ")
	runes := []rune(text)
	if len(runes) > PreviewLen {
		text = string(runes[:PreviewLen])
	}
	return text
}

// IsEmpty reports whether the conversation has no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.History) == 0
}

// Clone returns a deep copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	clone := *c
	clone.History = c.HistorySnapshot()
	return &clone
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportMarkdown renders the conversation as a Markdown document, including
// any retrieval sources attached to assistant replies.
func (c *Conversation) ExportMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# " + c.Title + "\n\n")
	sb.WriteString("Created: " + c.CreatedAt.Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, msg := range c.History {
		role := "**Assistant**"
		if msg.IsUser() {
			role = "**User**"
		}
		sb.WriteString(role + ":\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n")

		for i, snip := range msg.Contexts {
			sb.WriteString("> " + snip.Label(i) + "\n")
			for _, line := range strings.Split(snip.Text, "\n") {
				sb.WriteString("> " + line + "\n")
			}
			sb.WriteString("\n")
		}
		sb.WriteString("---\n\n")
	}

	return sb.String()
}
