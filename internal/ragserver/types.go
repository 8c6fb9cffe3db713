// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ragserver

import (
	"fmt"

	"github.com/jeranaias/paperchat/internal/model"
)

// =============================================================================
// ASK ENDPOINT
// =============================================================================

// AskRequest is the payload for POST /api/ask. History is the prior
// transcript captured before the exchange; the server appends the new turn
// pair and returns the canonical result.
type AskRequest struct {
	Message        string          `json:"message"`
	History        []model.Message `json:"history"`
	PersistDir     string          `json:"persist_dir"`
	CollectionName string          `json:"collection_name"`
	K              int             `json:"k"`
	ReturnContext  bool            `json:"return_context"`
}

// AskResponse is the ask endpoint's success payload. History is the
// canonical transcript and replaces the local one wholesale.
type AskResponse struct {
	Answer   string                 `json:"answer"`
	Contexts []model.ContextSnippet `json:"contexts"`
	History  []model.Message        `json:"history"`
}

// =============================================================================
// INDEX ENDPOINT
// =============================================================================

// Upload is one file to submit for indexing.
type Upload struct {
	Name string
	Data []byte
}

// FileError is one per-file failure from an indexing run. A multi-file
// upload is expected to partially succeed and fail independently per file.
type FileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// IndexResponse is the index endpoint's payload, for both outcomes. The
// server reports structured failures with OK false and a non-2xx status;
// both carry this shape.
type IndexResponse struct {
	OK             bool        `json:"ok"`
	PDFsSaved      int         `json:"pdfs_saved"`
	PDFsConverted  int         `json:"pdfs_converted"`
	ChunksIndexed  int         `json:"chunks_indexed"`
	CollectionName string      `json:"collection_name"`
	PersistDir     string      `json:"persist_dir"`
	IngestRun      string      `json:"ingest_run"`
	Error          string      `json:"error,omitempty"`
	Errors         []FileError `json:"errors,omitempty"`
}

// Summary renders the aggregate success line for an indexing run.
func (r *IndexResponse) Summary() string {
	return fmt.Sprintf("Indexed %d chunks from %d/%d PDFs into %q (%s), ingest run %s",
		r.ChunksIndexed, r.PDFsConverted, r.PDFsSaved,
		r.CollectionName, r.PersistDir, r.IngestRun)
}
