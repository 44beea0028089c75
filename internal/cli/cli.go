// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for longo.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdSessions
	CmdCall
	CmdConfig
	CmdHistory
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	Plain   bool // disable markdown rendering and colors

	// Command-specific
	Query          string
	Subcommand     string
	ConfigKey      string
	ConfigVal      string
	ConversationID string
	MeetingID      string
	Open           bool // call: open the meeting URL in the browser
	Limit          int  // sessions: cap the list length (0 = no cap)

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `longo %s - Longo sağlık asistanı terminal istemcisi

Longo is a terminal client for the Longo health assistant backend.

It provides:
  - An interactive chat TUI (sohbet ekranı)
  - One-shot questions from the command line
  - Conversation listing and replay
  - A local history cache for the free tier
  - Premium Plus video-call launching

Usage:
  longo                      Start TUI (default)
  longo ask "question"       Ask a single question
  longo chat                 Interactive chat (REPL)
  longo sessions [show <id>] List or replay conversations
    --limit N                Show at most N conversations
  longo call <meeting-id>    Join a Premium Plus video call
    --open                   Open the meeting URL in the browser
  longo config [show|path|set <key> <value>]
                             Configuration management
  longo history [show|clear] Local history cache (free tier)
  longo version              Show version information
  longo help                 Show this help

Global flags:
  -q, --quiet                Minimal output
  -v, --verbose              Verbose output
  --plain                    Plain text output (no markdown rendering)

Config keys for "longo config set":
  api.url, api.username, api.password, api.timeout_secs,
  user.id, user.level, ui.theme, history.enabled, history.max_entries

Environment overrides:
  LONGO_API_URL, LONGO_API_USERNAME, LONGO_API_PASSWORD,
  LONGO_USER_ID, LONGO_USER_LEVEL, LONGO_THEME

Examples:
  longo ask "D vitamini eksikliği belirtileri nelerdir?"
  longo sessions
  longo sessions show conv_9f2c
  longo call team-standup-42 --open
  longo config set user.level 2
`

// PrintUsage prints the usage text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("longo version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses os.Args and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given argument list and returns the command and args.
func ParseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	// No command defaults to the TUI
	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "ask":
		parseAskArgs(&args, remaining)
		return CmdAsk, args

	case "chat":
		return CmdChat, args

	case "session", "sessions", "conversations":
		parseSessionsArgs(&args, remaining)
		return CmdSessions, args

	case "call", "video-call":
		parseCallArgs(&args, remaining)
		return CmdCall, args

	case "config":
		parseConfigArgs(&args, remaining)
		return CmdConfig, args

	case "history":
		parseHistoryArgs(&args, remaining)
		return CmdHistory, args

	case "version", "--version", "-V":
		return CmdVersion, args

	case "help", "--help", "-h":
		return CmdHelp, args

	default:
		// Unknown word is treated as a question, matching the expectation
		// that "longo how do I ..." just works.
		args.Query = strings.TrimSpace(strings.Join(append([]string{cmd}, remaining...), " "))
		return CmdAsk, args
	}
}

// parseGlobalFlags extracts global flags from the argument list and returns
// the remaining arguments.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var args Args
	var remaining []string

	for _, arg := range argv {
		switch arg {
		case "-q", "--quiet":
			args.Quiet = true
		case "-v", "--verbose":
			args.Verbose = true
		case "--plain":
			args.Plain = true
		default:
			remaining = append(remaining, arg)
		}
	}

	return remaining, args
}

// parseAskArgs parses arguments for the ask command. Every non-flag word
// belongs to the question.
func parseAskArgs(args *Args, remaining []string) {
	var words []string
	for _, arg := range remaining {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		words = append(words, arg)
	}
	args.Query = strings.TrimSpace(strings.Join(words, " "))
}

// parseSessionsArgs parses arguments for the sessions command.
func parseSessionsArgs(args *Args, remaining []string) {
	parser := NewArgParser(remaining)
	args.Subcommand = parser.Subcommand()
	args.Limit = parser.FlagIntOrDefault("limit", 0)
	if args.Subcommand == "show" {
		args.ConversationID = parser.Positional(1)
	}
}

// parseCallArgs parses arguments for the call command.
func parseCallArgs(args *Args, remaining []string) {
	parser := NewArgParser(remaining)
	args.MeetingID = parser.Positional(0)
	args.Open = parser.BoolFlag("open")
}

// parseConfigArgs parses arguments for the config command.
func parseConfigArgs(args *Args, remaining []string) {
	parser := NewArgParser(remaining)
	args.Subcommand = parser.Subcommand()
	if args.Subcommand == "" {
		args.Subcommand = "show"
	}
	if args.Subcommand == "set" {
		args.ConfigKey = parser.Positional(1)
		args.ConfigVal = parser.Positional(2)
	}
}

// parseHistoryArgs parses arguments for the history command.
func parseHistoryArgs(args *Args, remaining []string) {
	parser := NewArgParser(remaining)
	args.Subcommand = parser.Subcommand()
	if args.Subcommand == "" {
		args.Subcommand = "show"
	}
}

// HandleVersion handles the "version" command.
func HandleVersion() {
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
