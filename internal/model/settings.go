// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Default query settings, matching the server's own defaults.
const (
	DefaultPersistDir     = "./rag_db"
	DefaultCollectionName = "papers"
	DefaultK              = 5
	DefaultReturnContext  = true
)

// =============================================================================
// QUERY SETTINGS
// =============================================================================

// QuerySettings are the retrieval parameters sent with every ask and index
// request for a conversation.
type QuerySettings struct {
	PersistDir     string `json:"persist_dir" toml:"persist_dir"`
	CollectionName string `json:"collection_name" toml:"collection_name"`
	K              int    `json:"k" toml:"k"`
	ReturnContext  bool   `json:"return_context" toml:"return_context"`
}

// DefaultQuerySettings returns the default retrieval parameters.
func DefaultQuerySettings() QuerySettings {
	return QuerySettings{
		PersistDir:     DefaultPersistDir,
		CollectionName: DefaultCollectionName,
		K:              DefaultK,
		ReturnContext:  DefaultReturnContext,
	}
}

// Normalized returns a copy with absent or invalid fields replaced by their
// defaults. Older persisted conversations may predate newer fields.
func (s QuerySettings) Normalized() QuerySettings {
	if strings.TrimSpace(s.PersistDir) == "" {
		s.PersistDir = DefaultPersistDir
	}
	if strings.TrimSpace(s.CollectionName) == "" {
		s.CollectionName = DefaultCollectionName
	}
	if s.K <= 0 {
		s.K = DefaultK
	}
	return s
}

// UnmarshalJSON decodes settings on top of the defaults, so fields missing
// from an older persisted shape come back as their default values rather
// than zero values.
func (s *QuerySettings) UnmarshalJSON(data []byte) error {
	type plain QuerySettings
	tmp := plain(DefaultQuerySettings())
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*s = QuerySettings(tmp).Normalized()
	return nil
}

// CoerceK parses a user-typed k value. Empty, unparsable, or non-positive
// input falls back to the default.
func CoerceK(raw string) int {
	k, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || k <= 0 {
		return DefaultK
	}
	return k
}
