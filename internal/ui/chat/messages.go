// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/paperchat/internal/config"
	"github.com/jeranaias/paperchat/internal/ragserver"
)

// ============================================================================
// Async messages
// ============================================================================

// AskCompleteMsg carries the outcome of one ask exchange. ConvID and
// ExchangeID identify the optimistic send the result belongs to; stale or
// mismatched results must not clobber newer state.
type AskCompleteMsg struct {
	ConvID     string
	ExchangeID string
	Resp       *ragserver.AskResponse
	Err        error
}

// IndexCompleteMsg carries the outcome of one indexing run. Resp is non-nil
// for structured outcomes, including structured failures; Err is set only
// when no structured response could be obtained.
type IndexCompleteMsg struct {
	Resp *ragserver.IndexResponse
	Err  error
}

// ConfigReloadedMsg is sent by the config file watcher when the on-disk
// config changed and reloaded cleanly.
type ConfigReloadedMsg struct {
	Cfg *config.Config
}

// ExportDoneMsg carries the outcome of a transcript export.
type ExportDoneMsg struct {
	Path string
	Err  error
}
