// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package persist is the persistence codec for paperchat.
//
// Application state lives as a single JSON record in a small SQLite
// key-value table; the sidebar preference is a second, independent record
// with its own lifecycle. Loads validate shape at the boundary and fail
// closed: anything that does not decode to an object whose conversations
// field is a sequence counts as "no existing state".
//
// The Port interface is what the conversation store depends on, so tests
// construct stores against the in-memory fake instead of a real database.
package persist
