// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "strings"

// Sanitize strips terminal control sequences and control characters from
// untrusted text before it is written to the terminal. Message content and
// retrieved snippets both come from untrusted or semi-trusted sources; an
// embedded ESC could otherwise inject cursor movement or title-setting
// sequences into the UI.
//
// Escape sequences are removed whole: after an ESC the full CSI or OSC
// sequence is consumed, so "\x1b[31mred\x1b[0m" sanitizes to "red" with no
// parameter bytes left behind. Newlines and tabs are kept; any other
// control byte, plus DEL, is dropped. This is a hard requirement of the
// render path, not cosmetics.
func Sanitize(s string) string {
	// Fast path: most text has no control characters at all.
	if !strings.ContainsFunc(s, isControl) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c == 0x1b {
			i = skipEscape(s, i)
			continue
		}
		if (c < 0x20 && c != '\n' && c != '\t') || c == 0x7f {
			i++
			continue
		}
		// Printable ASCII and UTF-8 multi-byte sequences copy verbatim.
		b.WriteByte(c)
		i++
	}
	return b.String()
}

// skipEscape returns the index just past the escape sequence starting at
// the ESC byte at i. Truncated sequences consume to end of input rather
// than leaking their tail as text.
func skipEscape(s string, i int) int {
	i++ // ESC
	if i >= len(s) {
		return i
	}
	switch s[i] {
	case '[':
		// CSI: parameter and intermediate bytes, then one final byte in
		// the 0x40-0x7e range.
		i++
		for i < len(s) {
			c := s[i]
			i++
			if c >= 0x40 && c <= 0x7e {
				break
			}
		}
		return i
	case ']':
		// OSC: terminated by BEL or ST (ESC \).
		i++
		for i < len(s) {
			if s[i] == 0x07 {
				return i + 1
			}
			if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '\\' {
				return i + 2
			}
			i++
		}
		return i
	default:
		// Other escapes: optional intermediates in 0x20-0x2f, then one
		// final byte (charset selection, keypad modes, ...).
		for i < len(s) && s[i] >= 0x20 && s[i] <= 0x2f {
			i++
		}
		if i < len(s) {
			i++
		}
		return i
	}
}

func isControl(r rune) bool {
	if r == '\n' || r == '\t' {
		return false
	}
	return r < 0x20 || r == 0x7f
}
