// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ragserver provides the HTTP client for the retrieval-augmented
// answering server: the ask endpoint (JSON) and the bulk document indexing
// endpoint (multipart upload).
//
// Response shapes are validated at this boundary and fail closed: an ask
// response without a usable history sequence is an error, never a partial
// result, so callers keep their prior local state.
package ragserver
