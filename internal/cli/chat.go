// chat.go - Readline REPL for multi-turn questions without the full TUI.
//
// Command: chat
//
// Interactive commands:
//   /clear      Forget the conversation so far
//   /sources    Toggle printing retrieved snippets
//   /settings   Show the active query settings
//   /quit       Exit (also Ctrl+D)
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

	"github.com/peterh/liner"

	"github.com/jeranaias/paperchat/internal/config"
	"github.com/jeranaias/paperchat/internal/model"
	"github.com/jeranaias/paperchat/internal/ragserver"
)

const replHistoryFile = "repl_history"

// RunChat runs the interactive REPL. The transcript lives only for the
// session; persistent conversations belong to the TUI.
func RunChat(cfg *config.Config, rawArgs []string) int {
	args := NewArgParser(rawArgs)
	client := newClient(cfg, args)
	settings := resolveSettings(cfg, args)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := loadREPLHistory(line)
	defer saveREPLHistory(line, histPath)

	fmt.Printf("paperchat · %s · collection %q · /quit to exit\n", client.BaseURL(), settings.CollectionName)

	history := []model.Message{}
	showSources := false

	for {
		input, err := line.Prompt("> ")
		if err != nil { // io.EOF on Ctrl+D, liner.ErrPromptAborted on Ctrl+C
			fmt.Println()
			return 0
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			switch input {
			case "/quit", "/q":
				return 0
			case "/clear", "/c":
				history = history[:0]
				fmt.Println("History cleared.")
			case "/sources", "/s":
				showSources = !showSources
				fmt.Printf("Sources: %v\n", showSources)
			case "/settings":
				fmt.Printf("persist_dir=%s collection=%s k=%d return_context=%v\n",
					settings.PersistDir, settings.CollectionName, settings.K, settings.ReturnContext)
			default:
				fmt.Println("Commands: /clear /sources /settings /quit")
			}
			continue
		}

		resp, err := client.Ask(context.Background(), &ragserver.AskRequest{
			Message:        input,
			History:        history,
			PersistDir:     settings.PersistDir,
			CollectionName: settings.CollectionName,
			K:              settings.K,
			ReturnContext:  settings.ReturnContext,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		// The server's transcript is canonical.
		if resp.History != nil {
			history = resp.History
		}
		displayAnswer(resp.Answer, cfg.UI.WordWrap)
		if showSources && len(resp.Contexts) > 0 {
			printSources(os.Stdout, resp.Contexts)
		}
	}
}

func loadREPLHistory(line *liner.State) string {
	dir, err := config.DataDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, replHistoryFile)
	if f, err := os.Open(path); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	return path
}

func saveREPLHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}
