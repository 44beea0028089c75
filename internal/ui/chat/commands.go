// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// COMMANDS
// =============================================================================

// sendCmd submits one user turn in the background.
func (m *Model) sendCmd(text string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		turn, err := ctrl.Send(context.Background(), text)
		return sendResultMsg{turn: turn, err: err}
	}
}

// listConversationsCmd fetches the server-side conversation list.
func (m *Model) listConversationsCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		metas, err := ctrl.Conversations(context.Background())
		return conversationsMsg{metas: metas, err: err}
	}
}

// loadConversationCmd switches to an existing conversation.
func (m *Model) loadConversationCmd(conversationID string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		msgs, err := ctrl.LoadExisting(context.Background(), conversationID)
		return historyLoadedMsg{conversationID: conversationID, msgs: msgs, err: err}
	}
}

// startNewCmd abandons the current conversation and starts a fresh one.
func (m *Model) startNewCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		id, err := ctrl.StartNew(context.Background())
		return newConversationMsg{conversationID: id, err: err}
	}
}

// loadLocalHistoryCmd reads the cached free-plan transcript.
func (m *Model) loadLocalHistoryCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		// Cache failures just mean an empty transcript on startup.
		msgs, _ := ctrl.LocalHistory()
		return localHistoryMsg{msgs: msgs}
	}
}
