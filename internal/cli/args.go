// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Minimal argument parser for subcommand handlers.
//
// Handlers receive the raw argument slice after the top-level command word.
// ArgParser splits it into positionals, value flags (--flag value or
// --flag=value) and boolean flags (--flag with no value).
package cli

import (
	"strconv"
	"strings"
)

// knownBoolFlags are flags that never take a value; a word after them is a
// positional, not a flag value.
var knownBoolFlags = map[string]bool{
	"open":    true,
	"confirm": true,
	"quiet":   true,
	"verbose": true,
	"plain":   true,
}

// ArgParser provides structured access to a subcommand's arguments.
type ArgParser struct {
	positional []string
	flags      map[string]string
	boolFlags  map[string]bool
}

// NewArgParser parses the given argument list.
func NewArgParser(argv []string) *ArgParser {
	p := &ArgParser{
		flags:     make(map[string]string),
		boolFlags: make(map[string]bool),
	}

	for i := 0; i < len(argv); {
		arg := argv[i]

		if !strings.HasPrefix(arg, "-") {
			p.positional = append(p.positional, arg)
			i++
			continue
		}

		name := strings.TrimLeft(arg, "-")

		// --flag=value form
		if eq := strings.Index(name, "="); eq >= 0 {
			p.flags[name[:eq]] = name[eq+1:]
			i++
			continue
		}

		// --flag value form, unless the flag is boolean or the next word
		// is another flag
		if !knownBoolFlags[name] && i+1 < len(argv) && !strings.HasPrefix(argv[i+1], "-") {
			p.flags[name] = argv[i+1]
			i += 2
			continue
		}

		p.boolFlags[name] = true
		i++
	}

	return p
}

// Subcommand returns the first positional argument, or "" if there is none.
func (p *ArgParser) Subcommand() string {
	return p.Positional(0)
}

// Positional returns the positional argument at the given index, or "" if
// the index is out of bounds.
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// Flag returns the value of a string flag, or "" if not set.
func (p *ArgParser) Flag(name string) string {
	return p.flags[strings.TrimLeft(name, "-")]
}

// FlagIntOrDefault returns the flag value as an integer, or the default when
// the flag is missing or not a valid integer.
func (p *ArgParser) FlagIntOrDefault(name string, defaultValue int) int {
	val := p.Flag(name)
	if val == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return n
}

// BoolFlag reports whether a boolean flag is set.
func (p *ArgParser) BoolFlag(name string) bool {
	return p.boolFlags[strings.TrimLeft(name, "-")]
}
