// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive TUI: a bubbletea model wiring the
// conversation store, the query/index client, and the rendering components
// into one event loop.
//
// The model is deliberately thin on domain logic. Conversation lifecycle and
// persistence live in the store; transport lives in ragserver; this package
// owns only the optimistic-send state machine, the input modes, and layout.
package chat
