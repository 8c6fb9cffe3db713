// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers: atomic file writes, rune and
// width aware string handling, and sanitization of untrusted text before it
// reaches the terminal.
package util
