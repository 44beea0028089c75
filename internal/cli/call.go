// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// call.go - Premium Plus video-call command handler.
//
// Handles "longo call <meeting-id>" which requests a tokenised meeting URL
// from the backend and prints it, or opens it in the browser with --open.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/longopass/longo-tui/internal/identity"
	"github.com/longopass/longo-tui/internal/ui/styles"
	"github.com/longopass/longo-tui/internal/videocall"
)

// HandleCall handles the "call" command.
func HandleCall(args Args) {
	if err := runCall(args); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Hata:")+" "+err.Error())
		os.Exit(1)
	}
}

func runCall(args Args) error {
	if args.MeetingID == "" {
		return errors.New("kullanım: longo call <meeting-id> [--open]")
	}

	rt, err := NewRuntime(args)
	if err != nil {
		return err
	}
	defer rt.Close()

	launcher := videocall.NewLauncher(rt.Client, rt.Resolver)

	call, err := launcher.Join(context.Background(), args.MeetingID)
	if err != nil {
		return callError(err)
	}

	fmt.Println(styles.RenderSuccess("Görüşmeye katılım hazır: " + call.MeetingID))
	fmt.Println("  " + call.JoinURL())

	if args.Open {
		if err := launcher.Open(call); err != nil {
			return fmt.Errorf("tarayıcı açılamadı: %w", err)
		}
		fmt.Println(styles.RenderInfo("Tarayıcıda açıldı."))
	}
	return nil
}

// callError maps launcher errors onto user-facing messages.
func callError(err error) error {
	switch {
	case errors.Is(err, videocall.ErrPlanRequired):
		return errors.New("görüntülü görüşme yalnızca Premium Plus planında kullanılabilir")
	case errors.Is(err, identity.ErrIdentityRequired):
		return errors.New("görüşmeye katılmak için kullanıcı kimliği gerekli; `longo config set user.id <id>` ile ayarlayın")
	case errors.Is(err, videocall.ErrJoinRejected):
		return fmt.Errorf("katılım reddedildi: %v", err)
	default:
		return err
	}
}
