// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles defines the lipgloss styles shared by the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the resolved styles for the current terminal.
type Theme struct {
	// Chat pane
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	MessageBody    lipgloss.Style
	Placeholder    lipgloss.Style
	SourceHeader   lipgloss.Style
	SourceMeta     lipgloss.Style
	SourceText     lipgloss.Style

	// Sidebar
	SidebarTitle    lipgloss.Style
	SidebarEntry    lipgloss.Style
	SidebarActive   lipgloss.Style
	SidebarPreview  lipgloss.Style
	SidebarBorder   lipgloss.Style

	// Chrome
	StatusBar   lipgloss.Style
	ErrorBanner lipgloss.Style
	Muted       lipgloss.Style
	Help        lipgloss.Style
	FormLabel   lipgloss.Style
	FormFocused lipgloss.Style
}

// Default builds the theme, adapting the palette to the terminal's color
// profile and background.
func Default() Theme {
	profile := termenv.ColorProfile()
	dark := termenv.HasDarkBackground()

	accent := lipgloss.Color("12")
	user := lipgloss.Color("10")
	errc := lipgloss.Color("9")
	dim := lipgloss.Color("8")
	if profile == termenv.TrueColor {
		accent = lipgloss.Color("#7aa2f7")
		user = lipgloss.Color("#9ece6a")
		errc = lipgloss.Color("#f7768e")
		if dark {
			dim = lipgloss.Color("#565f89")
		} else {
			dim = lipgloss.Color("#9699a3")
		}
	}

	return Theme{
		UserLabel:      lipgloss.NewStyle().Bold(true).Foreground(user),
		AssistantLabel: lipgloss.NewStyle().Bold(true).Foreground(accent),
		MessageBody:    lipgloss.NewStyle(),
		Placeholder:    lipgloss.NewStyle().Foreground(dim).Italic(true),
		SourceHeader:   lipgloss.NewStyle().Foreground(accent),
		SourceMeta:     lipgloss.NewStyle().Foreground(dim).Bold(true),
		SourceText:     lipgloss.NewStyle().Foreground(dim),

		SidebarTitle:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		SidebarEntry:   lipgloss.NewStyle(),
		SidebarActive:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		SidebarPreview: lipgloss.NewStyle().Foreground(dim),
		SidebarBorder:  lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(dim),

		StatusBar:   lipgloss.NewStyle().Foreground(dim),
		ErrorBanner: lipgloss.NewStyle().Bold(true).Foreground(errc),
		Muted:       lipgloss.NewStyle().Foreground(dim),
		Help:        lipgloss.NewStyle().Foreground(dim),
		FormLabel:   lipgloss.NewStyle().Foreground(dim),
		FormFocused: lipgloss.NewStyle().Bold(true).Foreground(accent),
	}
}
