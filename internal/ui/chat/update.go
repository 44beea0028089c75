// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/longopass/longo-tui/internal/session"
	"github.com/longopass/longo-tui/internal/ui/components"
)

// Init loads any cached transcript and starts the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadLocalHistoryCmd(), m.spin.Tick)
}

// Update handles all incoming messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case sendResultMsg:
		return m.handleSendResult(msg)

	case conversationsMsg:
		if msg.err != nil {
			m.setNotice(session.GenericFailureText, components.NoticeError)
			return m, m.notice.ExpireCmd()
		}
		m.conversations = msg.metas
		m.selected = 0
		m.picking = true
		return m, nil

	case historyLoadedMsg:
		if msg.err != nil {
			m.setNotice(session.GenericFailureText, components.NoticeError)
			return m, m.notice.ExpireCmd()
		}
		m.picking = false
		m.appendHistory(msg.msgs)
		m.refreshViewport()
		return m, nil

	case localHistoryMsg:
		if len(msg.msgs) > 0 {
			m.appendHistory(msg.msgs)
			m.refreshViewport()
		}
		return m, nil

	case newConversationMsg:
		if msg.err != nil {
			m.setNotice(session.GenericFailureText, components.NoticeError)
			return m, m.notice.ExpireCmd()
		}
		m.entries = m.entries[:0]
		m.refreshViewport()
		m.setNotice("Yeni konuşma başlatıldı.", components.NoticeInfo)
		return m, m.notice.ExpireCmd()

	case ConfigReloadedMsg:
		m.plan = msg.Plan
		m.setNotice("Yapılandırma yeniden yüklendi.", components.NoticeInfo)
		return m, m.notice.ExpireCmd()

	case components.NoticeExpiredMsg:
		// Ignore expiries for notices that have been replaced since.
		if m.notice.CreatedAt.Equal(msg.CreatedAt) {
			m.notice = components.Notice{}
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.spin, cmd = m.spin.Update(msg)
	cmds = append(cmds, cmd)

	if !m.sending && !m.picking {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleResize lays the screen out for a new terminal size.
func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	headerHeight := 3
	footerHeight := 4
	if m.compact {
		headerHeight = 1
		footerHeight = 3
	}
	viewportHeight := msg.Height - headerHeight - footerHeight
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = viewportHeight
	}

	// Markdown wraps to the viewport width.
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(msg.Width-6),
	)
	if err == nil {
		m.renderer = renderer
	}

	m.input.Width = msg.Width - 6
	m.refreshViewport()
	return m, nil
}

// handleKey routes key presses.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		return m, tea.Quit
	}

	if m.picking {
		return m.handlePickerKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Send):
		return m.submit()

	case key.Matches(msg, keys.NewChat):
		if m.sending {
			return m, nil
		}
		return m, m.startNewCmd()

	case key.Matches(msg, keys.ListChats):
		if m.sending {
			return m, nil
		}
		return m, m.listConversationsCmd()

	case key.Matches(msg, keys.ToggleProds):
		if s := m.lastSuggestions(); s != nil {
			s.Toggle()
			m.refreshViewport()
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	if !m.sending {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handlePickerKey handles keys while the conversation picker is open.
func (m *Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		m.picking = false
		return m, nil

	case msg.String() == "up" || msg.String() == "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case msg.String() == "down" || msg.String() == "j":
		if m.selected < len(m.conversations)-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, keys.Send):
		if len(m.conversations) == 0 {
			m.picking = false
			return m, nil
		}
		return m, m.loadConversationCmd(m.conversations[m.selected].ID)
	}
	return m, nil
}

// submit sends the current input if it has content and nothing is in flight.
func (m *Model) submit() (tea.Model, tea.Cmd) {
	if m.sending {
		return m, nil
	}

	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		// Whitespace never leaves the client; just reset the field.
		m.input.SetValue("")
		return m, nil
	}

	m.sending = true
	m.input.SetValue("")
	m.input.Blur()
	return m, tea.Batch(m.sendCmd(text), m.spin.Tick)
}

// handleSendResult applies a finished send. The input is always re-enabled,
// success or failure.
func (m *Model) handleSendResult(msg sendResultMsg) (tea.Model, tea.Cmd) {
	m.sending = false
	m.input.Focus()

	if msg.err != nil {
		m.setNotice(session.GenericFailureText, components.NoticeError)
		return m, m.notice.ExpireCmd()
	}
	if msg.turn == nil {
		return m, nil
	}

	m.appendTurn(msg.turn)
	m.refreshViewport()

	if msg.turn.LimitReached {
		m.setNotice(session.DailyLimitText, components.NoticeLimit)
		return m, m.notice.ExpireCmd()
	}
	return m, nil
}
