// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/paperchat/internal/ui/styles"
	"github.com/jeranaias/paperchat/internal/util"
)

// ============================================================================
// Status chrome
// ============================================================================

// RenderErrorBanner renders a dismissible one-line error strip. The text is
// sanitized and truncated to the pane width.
func RenderErrorBanner(th styles.Theme, text string, width int) string {
	msg := util.Sanitize(strings.TrimSpace(text))
	if msg == "" {
		return ""
	}
	line := "✗ " + msg
	if width > 0 {
		line = util.TruncateWidth(line, width)
	}
	return th.ErrorBanner.Render(line)
}

// RenderStatusBar renders the bottom status line: left-aligned status text
// and right-aligned help hint, padded to the full width.
func RenderStatusBar(th styles.Theme, left, right string, width int) string {
	left = util.Sanitize(left)
	right = util.Sanitize(right)
	if width <= 0 {
		return th.StatusBar.Render(left + "  " + right)
	}
	if util.Width(left)+util.Width(right) >= width {
		left = util.TruncateWidth(left, width-util.Width(right)-1)
	}
	return th.StatusBar.Render(util.PadRight(left, width-util.Width(right)) + right)
}
