// cli.go - Shared plumbing for the CLI commands: config-plus-flag resolution
// and terminal-aware markdown output.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/jeranaias/paperchat/internal/config"
	"github.com/jeranaias/paperchat/internal/model"
	"github.com/jeranaias/paperchat/internal/ragserver"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// renderMarkdown renders answer markdown for terminal display. Falls back to
// the raw text if the renderer cannot be built.
func renderMarkdown(content string, wrap int) string {
	if wrap <= 0 {
		wrap = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return out
}

// displayAnswer prints an answer, rendering markdown only when stdout is a
// TTY so piped output stays clean.
func displayAnswer(answer string, wrap int) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Print(renderMarkdown(answer, wrap))
		return
	}
	fmt.Println(answer)
}

// =============================================================================
// CONFIG RESOLUTION
// =============================================================================

// newClient builds a ragserver client from the config with flag overrides
// applied.
func newClient(cfg *config.Config, args *ArgParser) *ragserver.Client {
	base := args.FlagOrDefault("server", cfg.Server.BaseURL)
	return ragserver.NewClientWithConfig(&ragserver.ClientConfig{
		BaseURL:           base,
		Timeout:           time.Duration(cfg.Server.AskTimeoutSecs) * time.Second,
		IndexTimeout:      time.Duration(cfg.Server.IndexTimeoutSecs) * time.Second,
		RequestsPerSecond: cfg.Server.RequestsPerSecond,
	})
}

// resolveSettings merges config defaults with per-invocation flags.
func resolveSettings(cfg *config.Config, args *ArgParser) model.QuerySettings {
	s := cfg.Defaults.Normalized()
	s.PersistDir = args.FlagOrDefault("persist-dir", s.PersistDir)
	s.CollectionName = args.FlagOrDefault("collection", s.CollectionName)
	s.K = args.FlagIntOrDefault("k", s.K)
	if args.BoolFlag("no-context") {
		s.ReturnContext = false
	}
	return s.Normalized()
}
