// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the Longo chat backend.
package api

import (
	"time"

	"github.com/longopass/longo-tui/internal/model"
)

// =============================================================================
// IDENTITY
// =============================================================================

// Identity is attached to every outgoing request. UserID is either a real
// host-supplied user id (paid tiers) or a generated session id (free tier).
// Level is the host-supplied numeric level; zero means unknown and the
// x-user-level header is omitted.
type Identity struct {
	UserID string
	Plan   model.Plan
	Level  int
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// chatRequest is the body of POST /ai/chat.
type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
}

// joinRequest is the body of POST /ai/premium-plus/video-call/join.
type joinRequest struct {
	MeetingID string `json:"meeting_id"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// startResponse is the reply of POST /ai/chat/start.
type startResponse struct {
	ConversationID string `json:"conversation_id"`
}

// chatResponse is the raw wire reply of POST /ai/chat.
type chatResponse struct {
	ConversationID string    `json:"conversation_id"`
	Reply          string    `json:"reply"`
	LatencyMS      int64     `json:"latency_ms"`
	Products       []Product `json:"products,omitempty"`
}

// errorResponse carries the backend error detail on non-2xx replies.
type errorResponse struct {
	Detail string `json:"detail"`
}

// Product is one suggested product accompanying an assistant reply.
type Product struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Reason string `json:"reason,omitempty"`
}

// ChatReply is the interpreted result of a message exchange. When the
// backend signals the daily limit inside the reply text, the marker prefix
// has already been stripped and LimitReached is set.
type ChatReply struct {
	ConversationID string
	Text           string
	Products       []Product
	LimitReached   bool
	Latency        time.Duration
}

// conversationRow is one entry of GET /ai/chat/conversations.
type conversationRow struct {
	ConversationID string    `json:"conversation_id"`
	Title          string    `json:"title"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// historyRow is one entry of GET /ai/chat/{id}/history.
type historyRow struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// JoinResult is the reply of the video-call join endpoint.
type JoinResult struct {
	Success    bool   `json:"success"`
	MeetingURL string `json:"meetingUrl"`
	Token      string `json:"token"`
	Message    string `json:"message,omitempty"`
}
