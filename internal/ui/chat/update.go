// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jeranaias/paperchat/internal/ragserver"
)

// ============================================================================
// Update
// ============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.renderConversation()
		return m, nil

	case spinner.TickMsg:
		if m.pending == nil && !m.indexing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.pending != nil && !m.pending.failed {
			m.renderConversation()
		}
		return m, cmd

	case AskCompleteMsg:
		return m.onAskComplete(msg)

	case IndexCompleteMsg:
		return m.onIndexComplete(msg)

	case ConfigReloadedMsg:
		m.cfg = msg.Cfg
		m.client.SetBaseURL(msg.Cfg.Server.BaseURL)
		m.status = "Config reloaded"
		return m, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			m.errText = "Export failed: " + msg.Err.Error()
		} else {
			m.status = "Exported to " + msg.Path
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeRename:
			return m.updateRename(msg)
		case modeSettings:
			return m.updateSettings(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modePicker:
			return m.updatePicker(msg)
		default:
			return m.updateChat(msg)
		}
	}

	// Non-key traffic for the active modal widget.
	if m.mode == modePicker {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

// ----------------------------------------------------------------------------
// Chat mode
// ----------------------------------------------------------------------------

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m.submitAsk()

	case key.Matches(msg, m.keys.NewChat):
		c := m.store.CreateWithSettings(m.uiSettings)
		m.store.SetActive(c.ID)
		m.pending = nil
		m.errText = ""
		m.onActiveChanged()
		return m, nil

	case key.Matches(msg, m.keys.DeleteChat):
		id := m.store.ActiveID()
		wasPendingHere := m.pending != nil && m.pending.convID == id
		m.store.Delete(id, m.uiSettings)
		if wasPendingHere {
			m.pending = nil
		}
		m.onActiveChanged()
		return m, nil

	case key.Matches(msg, m.keys.ClearChat):
		m.store.ClearHistory(m.store.ActiveID())
		m.renderConversation()
		return m, nil

	case key.Matches(msg, m.keys.Rename):
		if c := m.activeConv(); c != nil {
			m.renameIn.SetValue(c.Title)
			m.renameIn.CursorEnd()
			m.renameIn.Focus()
			m.mode = modeRename
		}
		return m, nil

	case key.Matches(msg, m.keys.NextChat):
		m.cycleActive(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevChat):
		m.cycleActive(-1)
		return m, nil

	case key.Matches(msg, m.keys.ToggleSidebar):
		m.sidebarOpen = !m.sidebarOpen
		m.store.SetSidebarCollapsed(!m.sidebarOpen)
		m.layout()
		m.renderConversation()
		return m, nil

	case key.Matches(msg, m.keys.ToggleSources):
		m.showSources = !m.showSources
		m.renderConversation()
		return m, nil

	case key.Matches(msg, m.keys.Settings):
		m.syncSettingsForm()
		m.mode = modeSettings
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searchIn.SetValue("")
		m.searchIn.Focus()
		m.sidebarOpen = true
		m.mode = modeSearch
		return m, nil

	case key.Matches(msg, m.keys.PickFiles):
		m.mode = modePicker
		return m, m.picker.Init()

	case key.Matches(msg, m.keys.RunIndex):
		return m.submitIndex()

	case key.Matches(msg, m.keys.Export):
		if c := m.activeConv(); c != nil && !c.IsEmpty() {
			return m, ExportCmd(c.Clone())
		}
		m.status = "Nothing to export"
		return m, nil

	case msg.Type == tea.KeyEsc:
		m.errText = ""
		m.status = ""
		m.indexReport = nil
		m.renderConversation()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitAsk starts one optimistic exchange. The history snapshot and the
// conversation's settings are captured here, synchronously, before the
// command runs.
func (m Model) submitAsk() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	if m.pending != nil && !m.pending.failed {
		m.errText = "Still waiting on the previous question"
		return m, nil
	}
	c := m.activeConv()
	if c == nil {
		return m, nil
	}

	exchangeID := uuid.NewString()
	m.pending = &pendingAsk{
		exchangeID: exchangeID,
		convID:     c.ID,
		userText:   text,
	}
	m.errText = ""
	m.input.Reset()

	history := c.HistorySnapshot()
	settings := c.Settings
	m.renderConversation()
	return m, tea.Batch(
		AskCmd(m.client, c.ID, exchangeID, text, history, settings),
		m.spin.Tick,
	)
}

// onAskComplete reconciles a finished exchange against current state. The
// server's returned history replaces the local transcript wholesale; a
// result for a conversation deleted mid-flight is dropped, and a result for
// a non-active conversation updates the store without repainting.
func (m Model) onAskComplete(msg AskCompleteMsg) (tea.Model, tea.Cmd) {
	mine := m.pending != nil && m.pending.exchangeID == msg.ExchangeID

	if msg.Err != nil {
		if mine {
			m.pending.failed = true
			m.input.SetValue(m.pending.userText)
			m.errText = askErrorText(msg.Err)
			m.renderConversation()
		}
		return m, nil
	}

	replaced := m.store.ReplaceHistory(msg.ConvID, msg.Resp.History)
	if mine {
		m.pending = nil
	}
	if replaced && msg.ConvID == m.store.ActiveID() {
		m.renderConversation()
	}
	return m, nil
}

// askErrorText maps transport failures to user-facing text.
func askErrorText(err error) string {
	switch {
	case ragserver.IsTimeout(err):
		return "The server took too long to answer. Your question was kept; press enter to retry."
	case ragserver.IsBadStatus(err):
		return "Server error: " + err.Error()
	case ragserver.IsInvalidResponse(err):
		return "The server returned an unusable response."
	default:
		return "Could not reach the server: " + err.Error()
	}
}

// ----------------------------------------------------------------------------
// Indexing
// ----------------------------------------------------------------------------

func (m Model) submitIndex() (tea.Model, tea.Cmd) {
	if m.indexing {
		m.errText = "An indexing run is already in progress"
		return m, nil
	}
	if len(m.staged) == 0 {
		m.errText = "No files staged; press ctrl+p to pick PDFs"
		return m, nil
	}
	m.indexing = true
	m.indexReport = nil
	m.status = "Indexing..."
	paths := append([]string(nil), m.staged...)
	m.staged = nil
	return m, tea.Batch(
		IndexCmd(m.client, paths, m.uiSettings),
		m.spin.Tick,
	)
}

func (m Model) onIndexComplete(msg IndexCompleteMsg) (tea.Model, tea.Cmd) {
	m.indexing = false
	if msg.Err != nil {
		m.status = ""
		m.errText = "Indexing failed: " + msg.Err.Error()
		return m, nil
	}
	m.indexReport = msg.Resp
	if msg.Resp.OK {
		m.status = msg.Resp.Summary()
		m.errText = ""
	} else {
		m.status = ""
		m.errText = indexFailureText(msg.Resp)
	}
	return m, nil
}

// indexFailureText summarizes a structured indexing failure; the per-file
// detail stays in the report panel.
func indexFailureText(r *ragserver.IndexResponse) string {
	if len(r.Errors) > 0 {
		noun := "files"
		if len(r.Errors) == 1 {
			noun = "file"
		}
		return fmt.Sprintf("Indexing finished with errors (%d %s failed)", len(r.Errors), noun)
	}
	if r.Error != "" {
		return "Indexing failed: " + r.Error
	}
	return "Indexing failed"
}

// ----------------------------------------------------------------------------
// Modal inputs
// ----------------------------------------------------------------------------

func (m Model) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		title := m.renameIn.Value()
		if !m.store.Rename(m.store.ActiveID(), title) {
			m.errText = "Title cannot be empty"
			return m, nil
		}
		m.mode = modeChat
		m.renameIn.Blur()
		return m, nil
	case tea.KeyEsc:
		m.mode = modeChat
		m.renameIn.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.renameIn, cmd = m.renameIn.Update(msg)
	return m, cmd
}

func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.uiSettings = m.readSettingsForm()
		m.store.ApplySettings(m.store.ActiveID(), m.uiSettings)
		m.mode = modeChat
		return m, nil
	case tea.KeyEsc:
		m.mode = modeChat
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.focusSettings(m.focusIdx + 1)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.focusSettings(m.focusIdx - 1)
		return m, nil
	case tea.KeySpace:
		if m.focusIdx == fieldReturnCtx {
			m.retCtx = !m.retCtx
			return m, nil
		}
	}
	if m.focusIdx < len(m.settingsF) {
		var cmd tea.Cmd
		m.settingsF[m.focusIdx], cmd = m.settingsF[m.focusIdx].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) focusSettings(idx int) {
	if idx < 0 {
		idx = fieldCount - 1
	}
	if idx >= fieldCount {
		idx = 0
	}
	m.focusIdx = idx
	for i := range m.settingsF {
		if i == idx {
			m.settingsF[i].Focus()
		} else {
			m.settingsF[i].Blur()
		}
	}
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		// Activate the top match and leave search.
		if matches := m.store.Search(m.searchIn.Value()); len(matches) > 0 {
			m.store.SetActive(matches[0].ID)
			m.onActiveChanged()
		}
		m.mode = modeChat
		m.searchIn.Blur()
		m.searchIn.SetValue("")
		return m, nil
	case tea.KeyEsc:
		m.mode = modeChat
		m.searchIn.Blur()
		m.searchIn.SetValue("")
		return m, nil
	}
	var cmd tea.Cmd
	m.searchIn, cmd = m.searchIn.Update(msg)
	return m, cmd
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.mode = modeChat
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.staged = append(m.staged, path)
		m.status = "Staged " + path + " (ctrl+u to index)"
	}
	return m, cmd
}

// cycleActive moves the active conversation through the sorted order.
func (m *Model) cycleActive(delta int) {
	convs := m.store.Sorted()
	if len(convs) < 2 {
		return
	}
	cur := 0
	for i, c := range convs {
		if c.ID == m.store.ActiveID() {
			cur = i
			break
		}
	}
	next := (cur + delta + len(convs)) % len(convs)
	m.store.SetActive(convs[next].ID)
	m.onActiveChanged()
}
