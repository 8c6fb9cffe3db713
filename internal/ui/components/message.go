// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/paperchat/internal/model"
	"github.com/jeranaias/paperchat/internal/ui/styles"
	"github.com/jeranaias/paperchat/internal/util"
)

// ============================================================================
// Message bubbles
// ============================================================================

// MessageOpts controls how a single chat message is rendered.
type MessageOpts struct {
	// Width is the wrap width for the message body. Zero disables wrapping.
	Width int
	// ShowSources expands the retrieved-context panel under assistant
	// messages that carry snippets.
	ShowSources bool
}

// RenderMessage renders one finalized chat message: a role label, the
// sanitized body, and (for assistant messages) the sources disclosure.
func RenderMessage(th styles.Theme, msg model.Message, opts MessageOpts) string {
	var b strings.Builder

	switch msg.Role {
	case model.RoleUser:
		b.WriteString(th.UserLabel.Render("You"))
	case model.RoleAssistant:
		b.WriteString(th.AssistantLabel.Render("Assistant"))
	default:
		b.WriteString(th.Muted.Render(msg.Role))
	}
	b.WriteString("\n")

	body := util.Sanitize(msg.Content)
	if opts.Width > 0 {
		body = lipgloss.NewStyle().Width(opts.Width).Render(body)
	}
	b.WriteString(th.MessageBody.Render(body))

	if msg.Role == model.RoleAssistant && len(msg.Contexts) > 0 {
		b.WriteString("\n")
		b.WriteString(renderSources(th, msg.Contexts, opts))
	}

	return b.String()
}

// RenderPendingUser renders an optimistically appended user message that has
// not been confirmed by the server yet. Failed sends keep the text on screen
// with a marker so the user can recover it.
func RenderPendingUser(th styles.Theme, text string, failed bool, opts MessageOpts) string {
	var b strings.Builder
	b.WriteString(th.UserLabel.Render("You"))
	if failed {
		b.WriteString(" ")
		b.WriteString(th.ErrorBanner.Render("(not sent)"))
	}
	b.WriteString("\n")

	body := util.Sanitize(text)
	if opts.Width > 0 {
		body = lipgloss.NewStyle().Width(opts.Width).Render(body)
	}
	b.WriteString(th.MessageBody.Render(body))
	return b.String()
}

// RenderThinking renders the assistant placeholder shown while a query is in
// flight. The spinner frame is supplied by the caller.
func RenderThinking(th styles.Theme, spinner string) string {
	return th.AssistantLabel.Render("Assistant") + "\n" +
		th.Placeholder.Render(spinner+" Thinking...")
}

// renderSources renders the retrieved-context panel. Collapsed it is a
// one-line summary; expanded it lists every snippet with its label and text.
func renderSources(th styles.Theme, contexts []model.ContextSnippet, opts MessageOpts) string {
	n := len(contexts)
	noun := "sources"
	if n == 1 {
		noun = "source"
	}

	if !opts.ShowSources {
		return th.SourceHeader.Render(fmt.Sprintf("▸ %d %s (ctrl+o to expand)", n, noun))
	}

	var b strings.Builder
	b.WriteString(th.SourceHeader.Render(fmt.Sprintf("▾ %d %s", n, noun)))
	for i, ctx := range contexts {
		b.WriteString("\n")
		b.WriteString(th.SourceMeta.Render(util.Sanitize(ctx.Label(i))))
		text := util.Sanitize(strings.TrimSpace(ctx.Text))
		if text == "" {
			continue
		}
		if opts.Width > 2 {
			text = lipgloss.NewStyle().Width(opts.Width - 2).Render(text)
		}
		for _, line := range strings.Split(text, "\n") {
			b.WriteString("\n  ")
			b.WriteString(th.SourceText.Render(line))
		}
	}
	return b.String()
}
