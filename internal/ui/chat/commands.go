// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/paperchat/internal/config"
	"github.com/jeranaias/paperchat/internal/model"
	"github.com/jeranaias/paperchat/internal/ragserver"
	"github.com/jeranaias/paperchat/internal/util"
)

// ============================================================================
// Async commands
// ============================================================================

// AskCmd submits one question. The history snapshot and settings must be
// captured by the caller before the command yields, so a concurrent delete
// or switch cannot change what gets sent.
func AskCmd(client *ragserver.Client, convID, exchangeID, text string, history []model.Message, settings model.QuerySettings) tea.Cmd {
	settings = settings.Normalized()
	req := &ragserver.AskRequest{
		Message:        text,
		History:        history,
		PersistDir:     settings.PersistDir,
		CollectionName: settings.CollectionName,
		K:              settings.K,
		ReturnContext:  settings.ReturnContext,
	}
	return func() tea.Msg {
		resp, err := client.Ask(context.Background(), req)
		return AskCompleteMsg{ConvID: convID, ExchangeID: exchangeID, Resp: resp, Err: err}
	}
}

// IndexCmd uploads the given paths for indexing. Files that are not PDFs or
// cannot be read are reported as per-file failures without aborting the
// rest; if nothing valid remains the run fails locally and never reaches
// the network.
func IndexCmd(client *ragserver.Client, paths []string, settings model.QuerySettings) tea.Cmd {
	settings = settings.Normalized()
	return func() tea.Msg {
		var uploads []ragserver.Upload
		var localErrs []ragserver.FileError

		for _, p := range paths {
			name := filepath.Base(p)
			if !strings.EqualFold(filepath.Ext(p), ".pdf") {
				localErrs = append(localErrs, ragserver.FileError{File: name, Error: "not a PDF file"})
				continue
			}
			data, err := os.ReadFile(p)
			if err != nil {
				localErrs = append(localErrs, ragserver.FileError{File: name, Error: err.Error()})
				continue
			}
			uploads = append(uploads, ragserver.Upload{Name: name, Data: data})
		}

		if len(uploads) == 0 {
			return IndexCompleteMsg{Resp: &ragserver.IndexResponse{
				OK:             false,
				CollectionName: settings.CollectionName,
				PersistDir:     settings.PersistDir,
				Error:          "no PDF files to index",
				Errors:         localErrs,
			}}
		}

		resp, err := client.Index(context.Background(), uploads, settings.PersistDir, settings.CollectionName)
		if err != nil {
			return IndexCompleteMsg{Err: err}
		}
		resp.Errors = append(localErrs, resp.Errors...)
		if len(resp.Errors) > 0 {
			resp.OK = false
		}
		return IndexCompleteMsg{Resp: resp}
	}
}

// ExportCmd writes the conversation transcript as Markdown into the export
// directory. The conversation must be a snapshot owned by the command.
func ExportCmd(conv *model.Conversation) tea.Cmd {
	return func() tea.Msg {
		dir, err := config.ExportDir()
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ExportDoneMsg{Err: err}
		}
		path := filepath.Join(dir, exportFileName(conv.Title, time.Now()))
		if err := util.AtomicWriteFile(path, []byte(conv.ExportMarkdown()), 0o644); err != nil {
			return ExportDoneMsg{Err: err}
		}
		return ExportDoneMsg{Path: path}
	}
}

// exportFileName builds a filesystem-safe name from the title and timestamp.
func exportFileName(title string, now time.Time) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return -1
		}
	}, title)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "conversation"
	}
	if len(slug) > 40 {
		slug = slug[:40]
	}
	return fmt.Sprintf("%s-%s.md", slug, now.Format("20060102-150405"))
}
