// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/paperchat/internal/ui/components"
	"github.com/jeranaias/paperchat/internal/util"
)

// ============================================================================
// View
// ============================================================================

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var center string
	switch m.mode {
	case modeSettings:
		center = m.viewSettings()
	case modePicker:
		center = m.viewPicker()
	default:
		center = m.viewport.View()
	}

	var pane strings.Builder
	pane.WriteString(center)
	pane.WriteString("\n")
	pane.WriteString(m.viewNotice())
	pane.WriteString("\n")
	pane.WriteString(m.viewInputRow())
	pane.WriteString("\n")
	pane.WriteString(m.viewStatusBar())

	if !m.sidebarOpen && m.mode != modeSearch {
		rail := components.RenderSidebarCollapsed(m.theme, m.store.Len())
		return lipgloss.JoinHorizontal(lipgloss.Top, rail, pane.String())
	}

	sidebar := components.RenderSidebar(m.theme, m.visibleConversations(), components.SidebarOpts{
		Width:    sidebarWidth,
		Height:   m.height - 1,
		ActiveID: m.store.ActiveID(),
		Filter:   m.searchFilterLabel(),
	})
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, pane.String())
}

func (m Model) searchFilterLabel() string {
	if m.mode == modeSearch {
		return m.searchIn.Value() + "▏"
	}
	return ""
}

// viewNotice renders the one-line error or status strip, plus the per-file
// index report when one is pending dismissal.
func (m Model) viewNotice() string {
	w := m.chatWidth()
	var lines []string
	if m.errText != "" {
		lines = append(lines, components.RenderErrorBanner(m.theme, m.errText, w))
	} else if m.status != "" {
		lines = append(lines, m.theme.Muted.Render(util.TruncateWidth(util.Sanitize(m.status), w)))
	}
	if m.indexReport != nil && len(m.indexReport.Errors) > 0 {
		for _, fe := range m.indexReport.Errors {
			line := "  ✗ " + fe.File + ": " + fe.Error
			lines = append(lines, m.theme.Muted.Render(util.TruncateWidth(util.Sanitize(line), w)))
		}
		lines = append(lines, m.theme.Help.Render("esc to dismiss"))
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewInputRow() string {
	if m.mode == modeRename {
		return m.theme.FormLabel.Render("Rename: ") + m.renameIn.View()
	}
	return m.input.View()
}

func (m Model) viewStatusBar() string {
	left := fmt.Sprintf("Chats: %d", m.store.Len())
	if n := len(m.staged); n > 0 {
		left += fmt.Sprintf("  Staged: %d", n)
	}
	if m.indexing {
		left += "  " + m.spin.View() + "indexing"
	}
	right := "enter send · ctrl+n new · ctrl+t settings · ctrl+c quit"
	return components.RenderStatusBar(m.theme, left, right, m.chatWidth())
}

// viewSettings renders the query settings form.
func (m Model) viewSettings() string {
	labels := [...]string{"Persist directory", "Collection name", "Top-k results"}
	var b strings.Builder
	b.WriteString(m.theme.FormFocused.Render("Query settings"))
	b.WriteString("\n\n")
	for i, lbl := range labels {
		style := m.theme.FormLabel
		if m.focusIdx == i {
			style = m.theme.FormFocused
		}
		b.WriteString(style.Render(lbl))
		b.WriteString("\n")
		b.WriteString(m.settingsF[i].View())
		b.WriteString("\n\n")
	}

	style := m.theme.FormLabel
	if m.focusIdx == fieldReturnCtx {
		style = m.theme.FormFocused
	}
	check := "[ ]"
	if m.retCtx {
		check = "[x]"
	}
	b.WriteString(style.Render(check + " Return source context (space to toggle)"))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Help.Render("enter save · esc cancel · tab next field"))

	body := b.String()
	pad := m.viewport.Height - lipgloss.Height(body)
	if pad > 0 {
		body += strings.Repeat("\n", pad)
	}
	return body
}

func (m Model) viewPicker() string {
	var b strings.Builder
	b.WriteString(m.theme.FormFocused.Render("Pick PDFs to index"))
	b.WriteString("\n")
	b.WriteString(m.picker.View())
	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render("enter stage file · ctrl+u index staged · esc back"))
	return b.String()
}

// renderConversation rebuilds the transcript view from scratch and scrolls
// to the bottom. Render state is cheap enough to rebuild wholesale on every
// mutation.
func (m *Model) renderConversation() {
	if !m.ready {
		return
	}
	c := m.activeConv()
	if c == nil {
		m.viewport.SetContent("")
		return
	}

	opts := components.MessageOpts{Width: m.chatWidth(), ShowSources: m.showSources}
	var parts []string

	parts = append(parts, m.theme.FormFocused.Render(util.Sanitize(c.Title)))
	if c.IsEmpty() && m.pending == nil {
		parts = append(parts, m.theme.Placeholder.Render("Ask a question to get started."))
	}
	for _, msg := range c.History {
		parts = append(parts, components.RenderMessage(m.theme, msg, opts))
	}
	if m.pending != nil && m.pending.convID == c.ID {
		parts = append(parts, components.RenderPendingUser(m.theme, m.pending.userText, m.pending.failed, opts))
		if !m.pending.failed {
			parts = append(parts, components.RenderThinking(m.theme, m.spin.View()))
		}
	}

	m.viewport.SetContent(strings.Join(parts, "\n\n"))
	m.viewport.GotoBottom()
}
