// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for plans, messages and
// conversations.
package model

import (
	"time"

	"github.com/longopass/longo-tui/internal/util"
)

// =============================================================================
// CONVERSATION METADATA
// =============================================================================

// ConversationMeta identifies one backend-tracked conversation in a listing.
// The id is opaque; it is issued by the backend and never fabricated locally.
type ConversationMeta struct {
	ID        string    `json:"conversation_id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Preview returns the title truncated for a single list row.
func (m ConversationMeta) Preview(maxRunes int) string {
	title := m.Title
	if title == "" {
		title = "Yeni konuşma"
	}
	return util.TruncateRunes(util.CollapseWhitespace(title), maxRunes)
}
