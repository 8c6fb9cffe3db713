// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// AUTO-TITLE TESTS
// =============================================================================

func TestAutoTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"question", "What is the capital of France?", "What is the capital of france"},
		{"empty", "", TitleSentinel},
		{"whitespace only", "   \n\t ", TitleSentinel},
		{"punctuation only", "?!...", TitleSentinel},
		{"short", "Hello", "Hello"},
		{"exactly six words", "one two three four five six", "One two three four five six"},
		{"caps at six words", "a b c d e f g h", "A b c d e f"},
		{"collapses whitespace", "  what\n\nis   attention  ", "What is attention"},
		{"keeps digits", "Summarize section 3.2 please", "Summarize section 32 please"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AutoTitle(tt.input); got != tt.want {
				t.Errorf("AutoTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMaybeAutoTitle_RequiresFullExchange(t *testing.T) {
	conv := NewConversation()

	conv.ReplaceHistory([]Message{NewUserMessage("Explain transformers")})
	if conv.Title != TitleSentinel {
		t.Errorf("title derived with only one message: %q", conv.Title)
	}

	conv.ReplaceHistory([]Message{
		NewUserMessage("Explain transformers"),
		NewAssistantMessage("Sure.", nil),
	})
	if conv.Title != "Explain transformers" {
		t.Errorf("title = %q, want %q", conv.Title, "Explain transformers")
	}
}

func TestMaybeAutoTitle_DerivedOnlyOnce(t *testing.T) {
	conv := NewConversation()
	conv.Rename("My paper notes")

	conv.ReplaceHistory([]Message{
		NewUserMessage("Explain transformers"),
		NewAssistantMessage("Sure.", nil),
	})
	if conv.Title != "My paper notes" {
		t.Errorf("auto-title overwrote a user title: %q", conv.Title)
	}
}

// =============================================================================
// RENAME TESTS
// =============================================================================

func TestRename(t *testing.T) {
	conv := NewConversation()

	if conv.Rename("   ") {
		t.Error("blank rename should be rejected")
	}
	if conv.Title != TitleSentinel {
		t.Errorf("title changed on rejected rename: %q", conv.Title)
	}

	if !conv.Rename("  Attention paper  ") {
		t.Error("rename rejected")
	}
	if conv.Title != "Attention paper" {
		t.Errorf("title = %q, want trimmed", conv.Title)
	}

	long := strings.Repeat("x", 200)
	conv.Rename(long)
	if got := len([]rune(conv.Title)); got != MaxTitleLen {
		t.Errorf("title length = %d, want %d", got, MaxTitleLen)
	}
}

// =============================================================================
// HISTORY TESTS
// =============================================================================

func TestReplaceHistory_NilBecomesEmpty(t *testing.T) {
	conv := NewConversation()
	conv.ReplaceHistory(nil)
	if conv.History == nil || len(conv.History) != 0 {
		t.Errorf("History = %#v, want empty non-nil slice", conv.History)
	}
}

func TestClearHistory_KeepsTitleAndSettings(t *testing.T) {
	conv := NewConversation()
	conv.Rename("Kept")
	conv.Settings.K = 9
	conv.ReplaceHistory([]Message{NewUserMessage("hi"), NewAssistantMessage("hello", nil)})

	before := conv.UpdatedAt
	time.Sleep(time.Millisecond)
	conv.ClearHistory()

	if !conv.IsEmpty() {
		t.Error("history not cleared")
	}
	if conv.Title != "Kept" || conv.Settings.K != 9 {
		t.Error("clear touched title or settings")
	}
	if !conv.UpdatedAt.After(before) {
		t.Error("clear did not bump UpdatedAt")
	}
}

func TestHistorySnapshot_Independent(t *testing.T) {
	conv := NewConversation()
	conv.ReplaceHistory([]Message{NewUserMessage("one")})

	snap := conv.HistorySnapshot()
	conv.ReplaceHistory([]Message{NewUserMessage("two"), NewAssistantMessage("reply", nil)})

	if len(snap) != 1 || snap[0].Content != "one" {
		t.Errorf("snapshot mutated: %#v", snap)
	}
}

// =============================================================================
// PREVIEW TESTS
// =============================================================================

func TestPreview(t *testing.T) {
	conv := NewConversation()
	if conv.Preview() != EmptyPreview {
		t.Errorf("empty preview = %q", conv.Preview())
	}

	conv.ReplaceHistory([]Message{
		NewUserMessage("first"),
		NewAssistantMessage(strings.Repeat("a", 100), nil),
	})
	if got := len([]rune(conv.Preview())); got != PreviewLen {
		t.Errorf("preview length = %d, want %d", got, PreviewLen)
	}
}

// =============================================================================
// SNIPPET LABEL TESTS
// =============================================================================

func TestSnippetLabel(t *testing.T) {
	tests := []struct {
		name string
		snip ContextSnippet
		pos  int
		want string
	}{
		{
			"source preferred",
			ContextSnippet{Metadata: SnippetMetadata{Source: "attention.pdf", PaperID: "p1"}},
			0, "attention.pdf",
		},
		{
			"paper id fallback",
			ContextSnippet{Metadata: SnippetMetadata{PaperID: "p1"}},
			0, "p1",
		},
		{
			"positional fallback",
			ContextSnippet{},
			2, "Source 3",
		},
		{
			"section and chunk joined",
			ContextSnippet{Metadata: SnippetMetadata{Source: "a.pdf", Section: "Intro", ChunkID: "c7"}},
			0, "a.pdf · Intro · c7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snip.Label(tt.pos); got != tt.want {
				t.Errorf("Label = %q, want %q", got, tt.want)
			}
		})
	}
}

// =============================================================================
// SETTINGS TESTS
// =============================================================================

func TestCoerceK(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"3", 3},
		{" 12 ", 12},
		{"", DefaultK},
		{"abc", DefaultK},
		{"-1", DefaultK},
		{"0", DefaultK},
	}
	for _, tt := range tests {
		if got := CoerceK(tt.raw); got != tt.want {
			t.Errorf("CoerceK(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestQuerySettings_UnmarshalBackfillsDefaults(t *testing.T) {
	// Older persisted shape missing k and return_context.
	var s QuerySettings
	if err := json.Unmarshal([]byte(`{"persist_dir":"./db"}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.PersistDir != "./db" {
		t.Errorf("PersistDir = %q", s.PersistDir)
	}
	if s.CollectionName != DefaultCollectionName {
		t.Errorf("CollectionName = %q, want default", s.CollectionName)
	}
	if s.K != DefaultK {
		t.Errorf("K = %d, want default", s.K)
	}
	if s.ReturnContext != DefaultReturnContext {
		t.Errorf("ReturnContext = %v, want default", s.ReturnContext)
	}
}

func TestNewConversation_Defaults(t *testing.T) {
	conv := NewConversation()
	if conv.ID == "" {
		t.Error("missing ID")
	}
	if conv.Title != TitleSentinel {
		t.Errorf("Title = %q, want sentinel", conv.Title)
	}
	if conv.Settings != DefaultQuerySettings() {
		t.Errorf("Settings = %+v, want defaults", conv.Settings)
	}
	if conv.History == nil || len(conv.History) != 0 {
		t.Error("history not empty")
	}
	other := NewConversation()
	if other.ID == conv.ID {
		t.Error("IDs not unique")
	}
}
