// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strconv"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/paperchat/internal/config"
	"github.com/jeranaias/paperchat/internal/model"
	"github.com/jeranaias/paperchat/internal/ragserver"
	"github.com/jeranaias/paperchat/internal/store"
	"github.com/jeranaias/paperchat/internal/ui/styles"
)

// ============================================================================
// Model
// ============================================================================

// mode selects which surface owns keyboard input.
type mode int

const (
	modeChat mode = iota
	modeRename
	modeSettings
	modeSearch
	modePicker
)

// settings form field order
const (
	fieldPersistDir = iota
	fieldCollection
	fieldK
	fieldReturnCtx
	fieldCount
)

const (
	sidebarWidth       = 32
	collapsedRailWidth = 6
)

// pendingAsk tracks one optimistic send: the user's text is shown
// immediately, and the exchange ID ties the eventual server result back to
// this send. A failed send keeps the text on screen for recovery.
type pendingAsk struct {
	exchangeID string
	convID     string
	userText   string
	failed     bool
}

// Model is the bubbletea model for the chat TUI.
type Model struct {
	store  *store.Store
	client *ragserver.Client
	cfg    *config.Config
	theme  styles.Theme
	keys   KeyMap

	viewport  viewport.Model
	input     textarea.Model
	spin      spinner.Model
	picker    filepicker.Model
	renameIn  textinput.Model
	searchIn  textinput.Model
	settingsF [fieldK + 1]textinput.Model
	retCtx    bool
	focusIdx  int

	mode        mode
	width       int
	height      int
	ready       bool
	sidebarOpen bool
	showSources bool

	// uiSettings mirrors the settings form; it follows the active
	// conversation and is carried into a replacement conversation when
	// the last one is deleted.
	uiSettings model.QuerySettings

	pending *pendingAsk

	indexing    bool
	staged      []string
	indexReport *ragserver.IndexResponse

	errText string
	status  string
}

// New builds the TUI model over an initialized store and client.
func New(st *store.Store, client *ragserver.Client, cfg *config.Config) Model {
	in := textarea.New()
	in.Placeholder = "Ask about your papers..."
	in.ShowLineNumbers = false
	in.SetHeight(3)
	in.CharLimit = 0
	in.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf"}
	fp.ShowHidden = false

	rn := textinput.New()
	rn.Placeholder = "New title"
	rn.CharLimit = model.MaxTitleLen

	se := textinput.New()
	se.Placeholder = "Search conversations"

	m := Model{
		store:       st,
		client:      client,
		cfg:         cfg,
		theme:       styles.Default(),
		keys:        DefaultKeyMap(),
		input:       in,
		spin:        sp,
		picker:      fp,
		renameIn:    rn,
		searchIn:    se,
		sidebarOpen: !st.SidebarCollapsed(),
	}

	for i := range m.settingsF {
		m.settingsF[i] = textinput.New()
	}
	m.settingsF[fieldPersistDir].Placeholder = "Persist directory"
	m.settingsF[fieldCollection].Placeholder = "Collection name"
	m.settingsF[fieldK].Placeholder = "Top-k results"

	if active := st.Active(); active != nil {
		m.uiSettings = active.Settings
	} else {
		m.uiSettings = cfg.Defaults.Normalized()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// activeConv returns the active conversation. The store self-heals, so this
// is only nil before the store is initialized.
func (m *Model) activeConv() *model.Conversation {
	return m.store.Active()
}

// chatWidth returns the message wrap width for the current layout.
func (m *Model) chatWidth() int {
	w := m.width
	if m.sidebarOpen {
		w -= sidebarWidth
	} else {
		w -= collapsedRailWidth
	}
	w -= 2
	if w < 20 {
		w = 20
	}
	return w
}

// layout resizes the widgets after a terminal resize or sidebar toggle.
func (m *Model) layout() {
	chatW := m.chatWidth()
	inputH := 3
	chrome := inputH + 3 // input, status bar, error/status line
	vpH := m.height - chrome
	if vpH < 3 {
		vpH = 3
	}
	if !m.ready {
		m.viewport = viewport.New(chatW, vpH)
		m.ready = true
	} else {
		m.viewport.Width = chatW
		m.viewport.Height = vpH
	}
	m.input.SetWidth(chatW)
	m.picker.Height = vpH
}

// syncSettingsForm loads the active conversation's settings into the form.
func (m *Model) syncSettingsForm() {
	s := m.uiSettings.Normalized()
	m.settingsF[fieldPersistDir].SetValue(s.PersistDir)
	m.settingsF[fieldCollection].SetValue(s.CollectionName)
	m.settingsF[fieldK].SetValue(strconv.Itoa(s.K))
	m.retCtx = s.ReturnContext
	m.focusIdx = 0
	m.settingsF[0].Focus()
	for i := 1; i < fieldK+1; i++ {
		m.settingsF[i].Blur()
	}
}

// readSettingsForm merges the form fields back into uiSettings. Invalid or
// non-positive k falls back to the default.
func (m *Model) readSettingsForm() model.QuerySettings {
	s := model.QuerySettings{
		PersistDir:     m.settingsF[fieldPersistDir].Value(),
		CollectionName: m.settingsF[fieldCollection].Value(),
		K:              model.CoerceK(m.settingsF[fieldK].Value()),
		ReturnContext:  m.retCtx,
	}
	return s.Normalized()
}

// onActiveChanged refreshes settings binding and transcript after the
// active conversation switched.
func (m *Model) onActiveChanged() {
	if c := m.activeConv(); c != nil {
		m.uiSettings = c.Settings
	}
	m.renderConversation()
}

// visibleConversations applies the sidebar filter.
func (m *Model) visibleConversations() []*model.Conversation {
	if q := m.searchIn.Value(); m.mode == modeSearch || q != "" {
		return m.store.Search(m.searchIn.Value())
	}
	return m.store.Sorted()
}

