// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// STRING TESTS
// =============================================================================

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 5); got != "ab   " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadRight("abcdef", 3); got != "abcdef" {
		t.Errorf("PadRight should not shorten, got %q", got)
	}
}

func TestTruncateWidth(t *testing.T) {
	if got := TruncateWidth("hello", 10); got != "hello" {
		t.Errorf("TruncateWidth = %q", got)
	}
	got := TruncateWidth("hello world", 6)
	if len([]rune(got)) > 6 {
		t.Errorf("TruncateWidth too long: %q", got)
	}
}

// =============================================================================
// SANITIZE TESTS
// =============================================================================

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello", "hello"},
		{"keeps newline and tab", "a\n\tb", "a\n\tb"},
		{"strips whole CSI sequence", "evil\x1b[2Jtext", "eviltext"},
		{"strips SGR color pair", "evil\x1b[31mred\x1b[0m text", "evilred text"},
		{"strips OSC title via BEL", "a\x1b]0;owned\x07b", "ab"},
		{"strips OSC title via ST", "a\x1b]0;owned\x1b\\b", "ab"},
		{"strips charset escape", "a\x1b(Bb", "ab"},
		{"unterminated CSI eats to end", "a\x1b[31", "a"},
		{"trailing bare escape", "ab\x1b", "ab"},
		{"strips bell and del", "a\x07b\x7fc", "abc"},
		{"strips carriage return", "a\rb", "ab"},
		{"unicode survives", "café \x1b[1mbold\x1b[0m ☕", "café bold ☕"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "out.json")

	if err := AtomicWriteFile(path, []byte("first"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile: %v", err)
	}
	if err := AtomicWriteFile(path, []byte("second"), 0644); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("leftover files: %d entries", len(entries))
	}
}
