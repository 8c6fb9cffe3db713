// index.go - Bulk indexing command.
//
// Command: index <file.pdf> [file.pdf ...]
//
// Every given file is screened locally (must exist and be a PDF) and the
// valid ones upload in one multipart request. Per-file failures, local or
// server-side, print one line each; the command fails if any file failed.
//
// Examples:
//   paperchat index paper.pdf
//   paperchat index --collection biology papers/*.pdf
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/paperchat/internal/config"
	"github.com/jeranaias/paperchat/internal/ragserver"
)

// RunIndex uploads PDFs for indexing and reports per-file outcomes.
func RunIndex(cfg *config.Config, rawArgs []string) int {
	args := NewArgParser(rawArgs)
	paths := args.Positionals()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: paperchat index [flags] <file.pdf> [file.pdf ...]")
		return 2
	}

	client := newClient(cfg, args)
	settings := resolveSettings(cfg, args)

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

	var resp *ragserver.IndexResponse
	if len(uploads) > 0 {
		var err error
		resp, err = client.Index(context.Background(), uploads, settings.PersistDir, settings.CollectionName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	}

	failures := localErrs
	if resp != nil {
		failures = append(failures, resp.Errors...)
		if resp.ChunksIndexed > 0 || resp.OK {
			fmt.Println(resp.Summary())
		} else if resp.Error != "" {
			fmt.Fprintf(os.Stderr, "error: %s\n", resp.Error)
		}
	}

	for _, fe := range failures {
		fmt.Fprintf(os.Stderr, "%s: %s\n", fe.File, fe.Error)
	}
	if len(failures) > 0 || resp == nil {
		return 1
	}
	return 0
}
