// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// retrieval context snippets, and per-conversation query settings.
//
// The types here mirror the wire format of the RAG server: a conversation's
// history is the same message sequence the server accepts and returns, so a
// successful exchange can replace the local history wholesale with the
// server's canonical version.
package model
