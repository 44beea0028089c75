// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command handler.
//
// Handles "longo ask" which sends a single question and prints the rendered
// reply.
//
// Examples:
//
//	longo ask "D vitamini eksikliği belirtileri nelerdir?"
//	longo --plain ask "magnezyum ne işe yarar"
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/longopass/longo-tui/internal/api"
	"github.com/longopass/longo-tui/internal/identity"
	"github.com/longopass/longo-tui/internal/session"
)

// HandleAsk handles the "ask" command.
func HandleAsk(args Args) {
	if err := runAsk(args); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Hata:")+" "+err.Error())
		os.Exit(1)
	}
}

func runAsk(args Args) error {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return errors.New(`soru boş; kullanım: longo ask "soru"`)
	}

	rt, err := NewRuntime(args)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()

	if _, err := rt.Controller.EnsureConversation(ctx); err != nil {
		return askError(err)
	}

	turn, err := rt.Controller.Send(ctx, query)
	if err != nil {
		return askError(err)
	}

	printTurn(turn, args)
	return nil
}

// askError maps component errors onto the fixed user-facing texts.
func askError(err error) error {
	switch {
	case errors.Is(err, identity.ErrIdentityRequired):
		return errors.New("ücretli plan için kullanıcı kimliği gerekli; `longo config set user.id <id>` ile ayarlayın")
	case api.IsDailyLimit(err):
		return errors.New(session.DailyLimitText)
	default:
		return fmt.Errorf("%s (%v)", session.GenericFailureText, err)
	}
}
