// paperchat - A terminal chat client for a paper question-answering server.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/paperchat/internal/cli"
	"github.com/jeranaias/paperchat/internal/config"
	"github.com/jeranaias/paperchat/internal/persist"
	"github.com/jeranaias/paperchat/internal/ragserver"
	"github.com/jeranaias/paperchat/internal/store"
	"github.com/jeranaias/paperchat/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		runTUI(cfg)
		return
	}

	cmd, rest := os.Args[1], os.Args[2:]
	switch cmd {
	case "ask":
		os.Exit(cli.RunAsk(cfg, rest))
	case "chat":
		os.Exit(cli.RunChat(cfg, rest))
	case "index":
		os.Exit(cli.RunIndex(cfg, rest))
	case "version", "--version", "-v":
		fmt.Printf("paperchat %s (%s, built %s)\n", Version, GitCommit, BuildDate)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Print(`paperchat - chat with your papers

Usage:
  paperchat            Launch the TUI
  paperchat ask        Ask a single question
  paperchat chat       Interactive REPL
  paperchat index      Upload PDFs for indexing
  paperchat version    Print version

Run any command with flags like --server, --collection, --persist-dir, --k.
Config lives at ~/.paperchat/config.toml; PAPERCHAT_SERVER_URL,
PAPERCHAT_PERSIST_DIR and PAPERCHAT_COLLECTION override it.
`)
}

func runTUI(cfg *config.Config) {
	statePath, err := config.StatePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	codec, err := persist.Open(statePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open state database: %v\n", err)
		os.Exit(1)
	}
	defer codec.Close()

	st := store.New(codec)
	client := ragserver.NewClientWithConfig(serverClientConfig(cfg))

	program := tea.NewProgram(
		chat.New(st, client, cfg),
		tea.WithAltScreen(),
	)

	// Live-reload the config file while the TUI runs.
	if path, err := config.Path(); err == nil {
		watcher, werr := config.NewWatcher(path, func(next *config.Config) {
			program.Send(chat.ConfigReloadedMsg{Cfg: next})
		})
		if werr != nil {
			log.Printf("config watcher disabled: %v", werr)
		} else if err := watcher.Start(); err != nil {
			log.Printf("config watcher disabled: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serverClientConfig(cfg *config.Config) *ragserver.ClientConfig {
	c := ragserver.DefaultConfig()
	c.BaseURL = cfg.Server.BaseURL
	if cfg.Server.AskTimeoutSecs > 0 {
		c.Timeout = time.Duration(cfg.Server.AskTimeoutSecs) * time.Second
	}
	if cfg.Server.IndexTimeoutSecs > 0 {
		c.IndexTimeout = time.Duration(cfg.Server.IndexTimeoutSecs) * time.Second
	}
	if cfg.Server.RequestsPerSecond > 0 {
		c.RequestsPerSecond = cfg.Server.RequestsPerSecond
	}
	return c
}
