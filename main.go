// longo - Terminal client for the Longo health assistant.
//
// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/longopass/longo-tui/internal/cli"
	"github.com/longopass/longo-tui/internal/config"
	"github.com/longopass/longo-tui/internal/model"
	"github.com/longopass/longo-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdSessions:
		cli.HandleSessions(args)
	case cli.CmdCall:
		cli.HandleCall(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdHistory:
		cli.HandleHistory(args)
	case cli.CmdVersion:
		cli.HandleVersion()
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		runTUI(args)
	}
}

// runTUI starts the full-screen chat interface.
func runTUI(args cli.Args) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "stdout bir terminal değil; `longo ask` veya `longo chat` kullanın")
		os.Exit(1)
	}

	rt, err := cli.NewRuntime(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hata: %v\n", err)
		os.Exit(1)
	}
	defer rt.Close()

	m := chat.New(chat.Options{
		Controller: rt.Controller,
		Plan:       rt.Plan,
		Compact:    rt.Config.UI.CompactMode,
	})

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Follow config edits while running: a changed user id or level is
	// reapplied to the resolver, the way the widget picked up late-set
	// host globals.
	if path, err := config.ConfigPath(); err == nil {
		watcher, err := config.NewWatcher(path, config.DefaultDebounce, func(cfg *config.Config) {
			rt.Resolver.Reconfigure(cfg.User.ID, cfg.User.Level)
			p.Send(chat.ConfigReloadedMsg{Plan: model.PlanFromLevel(cfg.User.Level)})
		})
		if err == nil {
			if err := watcher.Watch(); err == nil {
				defer watcher.Close()
			} else {
				watcher.Close()
			}
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Hata: %v\n", err)
		os.Exit(1)
	}
}
