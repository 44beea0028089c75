// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler.
//
// Handles "longo chat" which provides a readline-style REPL for talking to
// the assistant without the full TUI. Input history persists across runs.
//
// Interactive commands (during chat):
//
//	/new              Start a new conversation
//	/sessions         List saved conversations
//	/load <id>        Load a conversation and show its transcript
//	/history          Show the local history cache (free tier)
//	/help, /h         Show available commands
//	/quit, /q         Exit chat
//	Ctrl+C, Ctrl+D    Exit chat
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/longopass/longo-tui/internal/config"
	"github.com/longopass/longo-tui/internal/session"
)

// chatHistoryFile is the liner history file name under the state directory.
const chatHistoryFile = "chat_input_history"

// HandleChat handles the "chat" command.
func HandleChat(args Args) {
	if err := runChat(args); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Hata:")+" "+err.Error())
		os.Exit(1)
	}
}

func runChat(args Args) error {
	rt, err := NewRuntime(args)
	if err != nil {
		return err
	}
	defer rt.Close()

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	historyPath := loadInputHistory(line)

	if !args.Quiet {
		fmt.Println(welcomeStyle.Render("Longo · Sağlık Asistanı"))
		fmt.Println(infoStyle.Render(fmt.Sprintf("Plan: %s · Sunucu: %s", rt.Plan.DisplayName(), rt.Client.BaseURL())))
		fmt.Println(mutedStyle.Render("/help komutları listeler, /quit çıkar."))
		fmt.Println()
	}

	ctx := context.Background()

	for {
		input, err := line.Prompt(promptStyle.Render("longo> "))
		if err != nil {
			// liner.ErrPromptAborted is Ctrl+C, anything else is EOF.
			fmt.Println()
			saveInputHistory(line, historyPath)
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			cont, err := handleSlashCommand(ctx, rt, input, args)
			if err != nil {
				fmt.Fprintln(os.Stderr, errorStyle.Render("[Hata]")+" "+err.Error())
			}
			if !cont {
				saveInputHistory(line, historyPath)
				return nil
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			saveInputHistory(line, historyPath)
			return nil
		}

		if err := sendChatMessage(ctx, rt, input, args); err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("[Hata]")+" "+err.Error())
		}
	}
}

// sendChatMessage sends one message and prints the assistant reply.
func sendChatMessage(ctx context.Context, rt *Runtime, input string, args Args) error {
	if _, err := rt.Controller.EnsureConversation(ctx); err != nil {
		return askError(err)
	}

	turn, err := rt.Controller.Send(ctx, input)
	if err != nil {
		if err == session.ErrBusy {
			return err
		}
		return askError(err)
	}

	fmt.Println()
	printTurn(turn, args)
	fmt.Println()
	return nil
}

// handleSlashCommand dispatches a /command. The bool reports whether the
// REPL should keep running.
func handleSlashCommand(ctx context.Context, rt *Runtime, input string, args Args) (bool, error) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case "/quit", "/q", "/exit":
		return false, nil

	case "/help", "/h":
		printChatHelp()
		return true, nil

	case "/new":
		id, err := rt.Controller.StartNew(ctx)
		if err != nil {
			return true, askError(err)
		}
		fmt.Println(infoStyle.Render("Yeni konuşma başlatıldı: " + id))
		return true, nil

	case "/sessions", "/list":
		conversations, err := rt.Controller.Conversations(ctx)
		if err != nil {
			return true, askError(err)
		}
		printConversationList(conversations)
		return true, nil

	case "/load":
		if len(fields) < 2 {
			return true, fmt.Errorf("kullanım: /load <konuşma-id>")
		}
		messages, err := rt.Controller.LoadExisting(ctx, fields[1])
		if err != nil {
			return true, askError(err)
		}
		fmt.Println()
		printTranscript(messages, args)
		return true, nil

	case "/history":
		messages, err := rt.Controller.LocalHistory()
		if err != nil {
			return true, err
		}
		if len(messages) == 0 {
			fmt.Println(mutedStyle.Render("Yerel geçmiş boş."))
			return true, nil
		}
		fmt.Println()
		printTranscript(messages, args)
		return true, nil

	default:
		return true, fmt.Errorf("bilinmeyen komut: %s (/help komutları listeler)", cmd)
	}
}

func printChatHelp() {
	fmt.Println(infoStyle.Render("Komutlar:"))
	fmt.Println("  /new              Yeni konuşma başlat")
	fmt.Println("  /sessions         Kayıtlı konuşmaları listele")
	fmt.Println("  /load <id>        Konuşmayı yükle ve göster")
	fmt.Println("  /history          Yerel geçmişi göster (ücretsiz plan)")
	fmt.Println("  /quit             Çık")
}

// loadInputHistory restores liner history and returns the history file path.
func loadInputHistory(line *liner.State) string {
	stateDir, err := config.StateDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(stateDir, chatHistoryFile)
	if f, err := os.Open(path); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	return path
}

// saveInputHistory persists liner history; failures are not fatal.
func saveInputHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = line.WriteHistory(f)
}
