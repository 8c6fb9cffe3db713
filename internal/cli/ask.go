// ask.go - One-shot question command.
//
// Command: ask [question]
//
// Examples:
//   paperchat ask "What does the attention paper conclude?"
//   paperchat ask --collection biology --k 8 "How does CRISPR work?"
//   paperchat ask --sources "What datasets were used?"
//
// Flags:
//   --server URL        Override the server base URL
//   --persist-dir DIR   Vector store directory on the server
//   --collection NAME   Collection to query
//   --k N               Number of retrieved chunks
//   --no-context        Skip retrieving source snippets
//   --sources           Print the retrieved snippets under the answer
//   --json              Output the raw response as JSON
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/paperchat/internal/config"
	"github.com/jeranaias/paperchat/internal/model"
	"github.com/jeranaias/paperchat/internal/ragserver"
)

// RunAsk sends a single question and prints the answer.
func RunAsk(cfg *config.Config, rawArgs []string) int {
	args := NewArgParser(rawArgs)
	question := strings.TrimSpace(strings.Join(args.Positionals(), " "))
	if question == "" {
		fmt.Fprintln(os.Stderr, "usage: paperchat ask [flags] <question>")
		return 2
	}

	client := newClient(cfg, args)
	settings := resolveSettings(cfg, args)

	resp, err := client.Ask(context.Background(), &ragserver.AskRequest{
		Message:        question,
		History:        []model.Message{},
		PersistDir:     settings.PersistDir,
		CollectionName: settings.CollectionName,
		K:              settings.K,
		ReturnContext:  settings.ReturnContext,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if args.BoolFlag("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(resp)
		return 0
	}

	displayAnswer(resp.Answer, cfg.UI.WordWrap)
	if args.BoolFlag("sources") && len(resp.Contexts) > 0 {
		printSources(os.Stdout, resp.Contexts)
	}
	return 0
}

func printSources(w io.Writer, contexts []model.ContextSnippet) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sources (%d):\n", len(contexts))
	for i, ctx := range contexts {
		fmt.Fprintf(w, "  [%d] %s\n", i+1, ctx.Label(i))
		text := strings.TrimSpace(ctx.Text)
		if text == "" {
			continue
		}
		for _, line := range strings.Split(text, "\n") {
			fmt.Fprintf(w, "      %s\n", line)
		}
	}
}
