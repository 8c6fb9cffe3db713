// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/paperchat/internal/model"
	"github.com/jeranaias/paperchat/internal/ui/styles"
	"github.com/jeranaias/paperchat/internal/util"
)

// ============================================================================
// Conversation sidebar
// ============================================================================

// SidebarOpts controls sidebar rendering.
type SidebarOpts struct {
	Width    int
	Height   int
	ActiveID string
	// Filter is the live search query; blank shows everything.
	Filter string
}

// RenderSidebar renders the conversation list, most recent activity first.
// Each entry shows the title and a short preview of the last message.
func RenderSidebar(th styles.Theme, convs []*model.Conversation, opts SidebarOpts) string {
	inner := opts.Width - 2 // border + pad
	if inner < 8 {
		inner = 8
	}

	var b strings.Builder
	header := "Conversations"
	if opts.Filter != "" {
		header = fmt.Sprintf("Filter: %s", util.Sanitize(opts.Filter))
	}
	b.WriteString(th.SidebarTitle.Render(util.TruncateWidth(header, inner)))
	b.WriteString("\n")

	if len(convs) == 0 {
		b.WriteString(th.SidebarPreview.Render("No matches"))
	}

	for _, c := range convs {
		b.WriteString("\n")
		title := util.Sanitize(c.Title)
		marker := "  "
		style := th.SidebarEntry
		if c.ID == opts.ActiveID {
			marker = "▌ "
			style = th.SidebarActive
		}
		b.WriteString(style.Render(util.TruncateWidth(marker+title, inner)))
		b.WriteString("\n")
		preview := util.Sanitize(c.Preview())
		b.WriteString(th.SidebarPreview.Render(util.TruncateWidth("  "+preview, inner)))
	}

	body := b.String()
	if opts.Height > 0 {
		lines := strings.Split(body, "\n")
		if len(lines) > opts.Height {
			lines = lines[:opts.Height]
			body = strings.Join(lines, "\n")
		}
	}
	return th.SidebarBorder.Render(body)
}

// RenderSidebarCollapsed renders the thin rail shown when the sidebar is
// hidden, so the toggle stays discoverable.
func RenderSidebarCollapsed(th styles.Theme, count int) string {
	return th.SidebarBorder.Render(th.Muted.Render(fmt.Sprintf("▸ %d", count)))
}
