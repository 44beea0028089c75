// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// history_cmd.go - Local history cache command handler.
//
// Handles "longo history" which shows or clears the free-tier local cache.
// Paid plans keep their history on the backend only, so both subcommands
// are no-ops there.
package cli

import (
	"fmt"
	"os"

	"github.com/longopass/longo-tui/internal/ui/styles"
)

// HandleHistory handles the "history" command.
func HandleHistory(args Args) {
	if err := runHistory(args); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Hata:")+" "+err.Error())
		os.Exit(1)
	}
}

func runHistory(args Args) error {
	rt, err := NewRuntime(args)
	if err != nil {
		return err
	}
	defer rt.Close()

	if rt.Cache == nil || !rt.Cache.Enabled() {
		fmt.Println(mutedStyle.Render("Yerel geçmiş yalnızca ücretsiz planda tutulur."))
		return nil
	}

	ident, err := rt.Controller.Identity()
	if err != nil {
		return askError(err)
	}

	switch args.Subcommand {
	case "show":
		count, err := rt.Cache.Count(ident.UserID)
		if err != nil {
			return err
		}
		if count == 0 {
			fmt.Println(mutedStyle.Render("Yerel geçmiş boş."))
			return nil
		}
		messages, err := rt.Cache.Read(ident.UserID)
		if err != nil {
			return err
		}
		printTranscript(messages, args)
		fmt.Println(mutedStyle.Render(fmt.Sprintf("%d kayıt", count)))
		return nil

	case "clear":
		if err := rt.Cache.Clear(ident.UserID); err != nil {
			return err
		}
		fmt.Println(styles.RenderSuccess("Yerel geçmiş temizlendi."))
		return nil

	default:
		return fmt.Errorf("bilinmeyen alt komut: %s (show, clear)", args.Subcommand)
	}
}
