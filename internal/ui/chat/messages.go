// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/longopass/longo-tui/internal/model"
	"github.com/longopass/longo-tui/internal/session"
)

// =============================================================================
// MESSAGES
// =============================================================================

// sendResultMsg carries the outcome of a send.
type sendResultMsg struct {
	turn *session.Turn
	err  error
}

// conversationsMsg carries the server-side conversation list.
type conversationsMsg struct {
	metas []model.ConversationMeta
	err   error
}

// historyLoadedMsg carries a loaded conversation transcript.
type historyLoadedMsg struct {
	conversationID string
	msgs           []model.Message
	err            error
}

// localHistoryMsg carries the cached free-plan transcript shown on startup.
type localHistoryMsg struct {
	msgs []model.Message
}

// newConversationMsg carries the result of starting a fresh conversation.
type newConversationMsg struct {
	conversationID string
	err            error
}

// ConfigReloadedMsg announces that the configuration file changed on disk
// and the identity inputs were reapplied.
type ConfigReloadedMsg struct {
	Plan model.Plan
}
