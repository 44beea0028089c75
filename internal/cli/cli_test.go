// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/longopass/longo-tui/internal/config"
)

func TestParseArgsDefaultsToTUI(t *testing.T) {
	cmd, _ := ParseArgs(nil)
	if cmd != CmdTUI {
		t.Errorf("expected CmdTUI, got %v", cmd)
	}
}

func TestParseArgsCommands(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Command
	}{
		{"tui", []string{"tui"}, CmdTUI},
		{"ask", []string{"ask", "soru"}, CmdAsk},
		{"chat", []string{"chat"}, CmdChat},
		{"sessions", []string{"sessions"}, CmdSessions},
		{"session alias", []string{"session"}, CmdSessions},
		{"conversations alias", []string{"conversations"}, CmdSessions},
		{"call", []string{"call", "meet-1"}, CmdCall},
		{"config", []string{"config"}, CmdConfig},
		{"history", []string{"history"}, CmdHistory},
		{"version", []string{"version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"help flag", []string{"--help"}, CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := ParseArgs(tt.argv)
			if cmd != tt.want {
				t.Errorf("ParseArgs(%v) = %v, want %v", tt.argv, cmd, tt.want)
			}
		})
	}
}

func TestParseArgsGlobalFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"--quiet", "--plain", "chat"})
	if cmd != CmdChat {
		t.Fatalf("expected CmdChat, got %v", cmd)
	}
	if !args.Quiet || !args.Plain {
		t.Errorf("global flags not parsed: %+v", args)
	}
}

func TestParseArgsAskJoinsWords(t *testing.T) {
	_, args := ParseArgs([]string{"ask", "magnezyum", "ne", "işe", "yarar"})
	if args.Query != "magnezyum ne işe yarar" {
		t.Errorf("unexpected query: %q", args.Query)
	}
}

func TestParseArgsUnknownWordBecomesQuestion(t *testing.T) {
	cmd, args := ParseArgs([]string{"magnezyum", "ne", "işe", "yarar"})
	if cmd != CmdAsk {
		t.Fatalf("expected CmdAsk, got %v", cmd)
	}
	if args.Query != "magnezyum ne işe yarar" {
		t.Errorf("unexpected query: %q", args.Query)
	}
}

func TestParseArgsSessionsShow(t *testing.T) {
	_, args := ParseArgs([]string{"sessions", "show", "conv_42"})
	if args.Subcommand != "show" {
		t.Errorf("unexpected subcommand: %q", args.Subcommand)
	}
	if args.ConversationID != "conv_42" {
		t.Errorf("unexpected conversation id: %q", args.ConversationID)
	}
}

func TestParseArgsCall(t *testing.T) {
	_, args := ParseArgs([]string{"call", "meet-7", "--open"})
	if args.MeetingID != "meet-7" {
		t.Errorf("unexpected meeting id: %q", args.MeetingID)
	}
	if !args.Open {
		t.Error("expected --open to be set")
	}
}

func TestParseArgsConfigSet(t *testing.T) {
	_, args := ParseArgs([]string{"config", "set", "user.level", "2"})
	if args.Subcommand != "set" {
		t.Errorf("unexpected subcommand: %q", args.Subcommand)
	}
	if args.ConfigKey != "user.level" || args.ConfigVal != "2" {
		t.Errorf("unexpected key/value: %q %q", args.ConfigKey, args.ConfigVal)
	}
}

func TestParseArgsConfigDefaultsToShow(t *testing.T) {
	_, args := ParseArgs([]string{"config"})
	if args.Subcommand != "show" {
		t.Errorf("unexpected subcommand: %q", args.Subcommand)
	}
}

func TestArgParserFlags(t *testing.T) {
	p := NewArgParser([]string{"show", "--lines", "50", "--format=json", "--open"})

	if p.Subcommand() != "show" {
		t.Errorf("unexpected subcommand: %q", p.Subcommand())
	}
	if p.Flag("lines") != "50" {
		t.Errorf("unexpected lines flag: %q", p.Flag("lines"))
	}
	if p.Flag("format") != "json" {
		t.Errorf("unexpected format flag: %q", p.Flag("format"))
	}
	if !p.BoolFlag("open") {
		t.Error("expected open bool flag")
	}
	if p.FlagIntOrDefault("lines", 0) != 50 {
		t.Errorf("unexpected int flag: %d", p.FlagIntOrDefault("lines", 0))
	}
	if p.FlagIntOrDefault("missing", 7) != 7 {
		t.Errorf("expected default for missing flag")
	}
}

func TestArgParserBoolFlagDoesNotEatPositional(t *testing.T) {
	p := NewArgParser([]string{"--open", "meet-1"})
	if !p.BoolFlag("open") {
		t.Error("expected open flag")
	}
	if p.Positional(0) != "meet-1" {
		t.Errorf("positional swallowed by bool flag: %q", p.Positional(0))
	}
}

func TestApplyConfigKey(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"api.url", "https://example.com", false},
		{"api.username", "clinic-17", false},
		{"api.timeout_secs", "30", false},
		{"api.timeout_secs", "abc", true},
		{"user.id", "user_991", false},
		{"user.level", "2", false},
		{"user.level", "x", true},
		{"ui.theme", "light", false},
		{"history.enabled", "false", false},
		{"history.enabled", "maybe", true},
		{"history.max_entries", "500", false},
		{"nonsense.key", "v", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := config.Default()
			err := applyConfigKey(cfg, tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("applyConfigKey(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestApplyConfigKeyWritesValue(t *testing.T) {
	cfg := config.Default()
	if err := applyConfigKey(cfg, "user.level", "3"); err != nil {
		t.Fatalf("applyConfigKey: %v", err)
	}
	if cfg.User.Level != 3 {
		t.Errorf("user.level not applied: %d", cfg.User.Level)
	}
}

func TestParseArgsSessionsLimit(t *testing.T) {
	_, args := ParseArgs([]string{"sessions", "--limit", "5"})
	if args.Limit != 5 {
		t.Errorf("Limit = %d, want 5", args.Limit)
	}

	_, args = ParseArgs([]string{"sessions"})
	if args.Limit != 0 {
		t.Errorf("Limit = %d, want 0 when flag absent", args.Limit)
	}
}
