// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// output.go - Rendering helpers shared by the ask and chat commands.
package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/longopass/longo-tui/internal/api"
	"github.com/longopass/longo-tui/internal/model"
	"github.com/longopass/longo-tui/internal/session"
)

// renderMarkdown renders assistant markdown for the terminal. Falls back to
// the raw text when rendering is disabled or fails.
func renderMarkdown(text string, plain bool) string {
	if plain {
		return text
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}

	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// printTurn prints one completed exchange's assistant side.
func printTurn(turn *session.Turn, args Args) {
	if turn == nil {
		return
	}

	if turn.LimitReached {
		fmt.Println(limitStyle.Render(turn.Assistant.Content))
		return
	}

	fmt.Println(renderMarkdown(turn.Assistant.Content, args.Plain))
	printProducts(turn.Products)
}

// printProducts prints the suggested products attached to a reply.
func printProducts(products []api.Product) {
	if len(products) == 0 {
		return
	}

	fmt.Println()
	fmt.Println(infoStyle.Render(fmt.Sprintf("Önerilen ürünler (%d):", len(products))))
	for _, p := range products {
		line := "  • " + p.Name
		if p.Reason != "" {
			line += mutedStyle.Render(" — " + p.Reason)
		}
		fmt.Println(line)
	}
}

// printTranscript prints a conversation transcript with role labels.
func printTranscript(messages []model.Message, args Args) {
	for _, msg := range messages {
		label := msg.Role.DisplayName()
		switch msg.Role {
		case model.RoleUser:
			fmt.Println(userLabelStyle.Render(label + ":"))
			fmt.Println(msg.Content)
		default:
			fmt.Println(assistantLabelStyle.Render(label + ":"))
			fmt.Println(renderMarkdown(msg.Content, args.Plain))
		}
		fmt.Println()
	}
}
