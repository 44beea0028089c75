// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive chat screen.
//
// The screen is a single bubbletea model: a transcript viewport, a one-line
// input, a status bar, and transient notices. One message is in flight at a
// time; the input stays disabled until the reply (or the failure) lands.
package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"github.com/longopass/longo-tui/internal/model"
	"github.com/longopass/longo-tui/internal/session"
	"github.com/longopass/longo-tui/internal/ui/components"
	"github.com/longopass/longo-tui/internal/ui/styles"
)

// =============================================================================
// ENTRY
// =============================================================================

// entry is one rendered transcript item.
type entry struct {
	msg         model.Message
	suggestions components.Suggestions
	limit       bool
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the bubbletea model for the chat screen.
type Model struct {
	ctrl  *session.Controller
	theme *styles.Theme
	plan  model.Plan

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model
	renderer *glamour.TermRenderer

	entries []entry
	notice  components.Notice

	// Conversation picker state
	picking       bool
	conversations []model.ConversationMeta
	selected      int

	sending bool
	ready   bool
	width   int
	height  int
	compact bool
}

// Options configures the chat screen.
type Options struct {
	Controller *session.Controller
	Plan       model.Plan
	Compact    bool
}

// New creates the chat screen model.
func New(opts Options) *Model {
	input := textinput.New()
	input.Placeholder = "Sorunuzu yazın..."
	input.Prompt = "> "
	input.CharLimit = 2000
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	theme := styles.NewTheme()
	spin.Style = theme.Spinner

	return &Model{
		ctrl:    opts.Controller,
		theme:   theme,
		plan:    opts.Plan,
		input:   input,
		spin:    spin,
		compact: opts.Compact,
	}
}

// appendTurn adds a completed exchange to the transcript.
func (m *Model) appendTurn(turn *session.Turn) {
	m.entries = append(m.entries, entry{msg: turn.User})
	m.entries = append(m.entries, entry{
		msg:         turn.Assistant,
		suggestions: components.NewSuggestions(turn.Products),
		limit:       turn.LimitReached,
	})
}

// appendHistory replaces the transcript with a loaded history.
func (m *Model) appendHistory(msgs []model.Message) {
	m.entries = m.entries[:0]
	for _, msg := range msgs {
		m.entries = append(m.entries, entry{msg: msg})
	}
}

// lastSuggestions returns the most recent suggestion panel, or nil.
func (m *Model) lastSuggestions() *components.Suggestions {
	for i := len(m.entries) - 1; i >= 0; i-- {
		if !m.entries[i].suggestions.Empty() {
			return &m.entries[i].suggestions
		}
	}
	return nil
}

// setNotice shows a transient notice and returns its expiry command.
func (m *Model) setNotice(message string, kind components.NoticeKind) {
	m.notice = components.NewNotice(message, kind)
}
