// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components contains the pure rendering primitives for the TUI:
// message bubbles with their collapsible sources panel, the conversation
// sidebar, and the status chrome.
//
// Everything here is a pure projection from model data to styled strings;
// the bubbletea model in ui/chat decides what to render and when. All
// user-supplied and server-supplied text is sanitized before it reaches
// the terminal.
package components
