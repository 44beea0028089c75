// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - Conversation listing and replay command handler.
//
// Handles "longo sessions" which lists the backend-tracked conversations of
// the current identity, and "longo sessions show <id>" which replays one
// transcript.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/longopass/longo-tui/internal/model"
	"github.com/longopass/longo-tui/internal/util"
)

// HandleSessions handles the "sessions" command.
func HandleSessions(args Args) {
	if err := runSessions(args); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Hata:")+" "+err.Error())
		os.Exit(1)
	}
}

func runSessions(args Args) error {
	rt, err := NewRuntime(args)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()

	switch args.Subcommand {
	case "", "list":
		conversations, err := rt.Controller.Conversations(ctx)
		if err != nil {
			return askError(err)
		}
		if args.Limit > 0 && len(conversations) > args.Limit {
			conversations = conversations[:args.Limit]
		}
		printConversationList(conversations)
		return nil

	case "show":
		if args.ConversationID == "" {
			return errors.New("kullanım: longo sessions show <konuşma-id>")
		}
		messages, err := rt.Controller.LoadExisting(ctx, args.ConversationID)
		if err != nil {
			return askError(err)
		}
		printTranscript(messages, args)
		return nil

	default:
		return fmt.Errorf("bilinmeyen alt komut: %s", args.Subcommand)
	}
}

// printConversationList prints one row per conversation.
func printConversationList(conversations []model.ConversationMeta) {
	if len(conversations) == 0 {
		fmt.Println(mutedStyle.Render("Henüz kayıtlı konuşma yok."))
		return
	}

	fmt.Println(infoStyle.Render(fmt.Sprintf("Konuşmalar (%d):", len(conversations))))
	for _, c := range conversations {
		row := "  " + util.PadRight(c.ID, 24) + " " + c.Preview(60)
		if !c.UpdatedAt.IsZero() {
			row += mutedStyle.Render("  " + c.UpdatedAt.Format("02.01.2006 15:04"))
		}
		fmt.Println(row)
	}
}
