// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longopass/longo-tui/internal/model"
)

func testIdentity() Identity {
	return Identity{UserID: "user-1", Plan: model.PlanPremium, Level: 2}
}

func newTestClient(baseURL string) *Client {
	return NewClient(&ClientConfig{
		BaseURL:   baseURL,
		Username:  "integration",
		Password:  "secret",
		SendBurst: 100, // keep the throttle out of the way unless a test wants it
	})
}

// =============================================================================
// HEADER CONTRACT
// =============================================================================

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		json.NewEncoder(w).Encode(startResponse{ConversationID: "c-1"})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.StartConversation(context.Background(), testIdentity())
	require.NoError(t, err)

	assert.Equal(t, "integration", got.Get("username"))
	assert.Equal(t, "secret", got.Get("password"))
	assert.Equal(t, "user-1", got.Get("x-user-id"))
	assert.Equal(t, "premium", got.Get("x-user-plan"))
	assert.Equal(t, "2", got.Get("x-user-level"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
}

func TestLevelHeaderOmittedWhenUnknown(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		json.NewEncoder(w).Encode(startResponse{ConversationID: "c-1"})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.StartConversation(context.Background(), Identity{UserID: "s-1", Plan: model.PlanFree})
	require.NoError(t, err)

	_, present := got["X-User-Level"]
	assert.False(t, present, "x-user-level must be omitted when the level is unknown")
}

// =============================================================================
// START CONVERSATION
// =============================================================================

func TestStartConversation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ai/chat/start", r.URL.Path)
		json.NewEncoder(w).Encode(startResponse{ConversationID: "c-42"})
	}))
	defer srv.Close()

	id, err := newTestClient(srv.URL).StartConversation(context.Background(), testIdentity())
	require.NoError(t, err)
	assert.Equal(t, "c-42", id)
}

func TestStartConversationEmptyID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).StartConversation(context.Background(), testIdentity())
	require.Error(t, err)

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, ErrTypeInvalidResponse, clientErr.Type)
}

func TestStartConversationRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(errorResponse{Detail: "limit doldu"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).StartConversation(context.Background(), testIdentity())
	assert.True(t, IsDailyLimit(err), "429 must map to the daily limit error, got %v", err)
}

// =============================================================================
// SEND MESSAGE
// =============================================================================

func TestSendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "c-1", req.ConversationID)
		assert.Equal(t, "Magnezyum ne işe yarar?", req.Text)

		json.NewEncoder(w).Encode(chatResponse{
			ConversationID: "c-1",
			Reply:          "Magnezyum kas fonksiyonlarını destekler.",
			LatencyMS:      120,
			Products: []Product{
				{ID: "p1", Name: "Magnezyum Sitrat", Reason: "Kas sağlığı"},
			},
		})
	}))
	defer srv.Close()

	reply, err := newTestClient(srv.URL).SendMessage(context.Background(), testIdentity(), "c-1", "Magnezyum ne işe yarar?")
	require.NoError(t, err)

	assert.Equal(t, "Magnezyum kas fonksiyonlarını destekler.", reply.Text)
	assert.False(t, reply.LimitReached)
	require.Len(t, reply.Products, 1)
	assert.Equal(t, "Magnezyum Sitrat", reply.Products[0].Name)
}

func TestSendMessageStripsLimitMarker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{
			ConversationID: "c-1",
			Reply:          "LIMIT_POPUP:Günlük limitiniz doldu, yarın devam edebilirsiniz.",
		})
	}))
	defer srv.Close()

	reply, err := newTestClient(srv.URL).SendMessage(context.Background(), testIdentity(), "c-1", "soru")
	require.NoError(t, err)

	assert.True(t, reply.LimitReached)
	assert.NotContains(t, reply.Text, "LIMIT_POPUP:")
	assert.Equal(t, "Günlük limitiniz doldu, yarın devam edebilirsiniz.", reply.Text)
}

func TestSendMessage429(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).SendMessage(context.Background(), testIdentity(), "c-1", "soru")
	assert.True(t, errors.Is(err, ErrDailyLimit))
}

func TestSendMessageThrottle(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(chatResponse{ConversationID: "c-1", Reply: "ok"})
	}))
	defer srv.Close()

	client := NewClient(&ClientConfig{BaseURL: srv.URL, SendBurst: 1})

	_, err := client.SendMessage(context.Background(), testIdentity(), "c-1", "bir")
	require.NoError(t, err)

	// Second immediate send exceeds the burst: rejected locally.
	_, err = client.SendMessage(context.Background(), testIdentity(), "c-1", "iki")
	assert.True(t, IsThrottled(err))
	assert.Equal(t, 1, calls, "throttled send must not reach the backend")
}

func TestSendMessageServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errorResponse{Detail: "model unavailable"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).SendMessage(context.Background(), testIdentity(), "c-1", "soru")
	require.Error(t, err)

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, ErrTypeInvalidResponse, clientErr.Type)
	assert.Contains(t, clientErr.Message, "model unavailable")
}

// =============================================================================
// LISTING AND HISTORY
// =============================================================================

func TestListConversations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ai/chat/conversations", r.URL.Path)
		w.Write([]byte(`[
			{"conversation_id":"c-2","title":"Vitamin D","updated_at":"2025-05-01T10:00:00Z"},
			{"conversation_id":"c-1","title":"Uyku","updated_at":"2025-04-28T09:00:00Z"}
		]`))
	}))
	defer srv.Close()

	metas, err := newTestClient(srv.URL).ListConversations(context.Background(), testIdentity())
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "c-2", metas[0].ID)
	assert.Equal(t, "Vitamin D", metas[0].Title)
}

func TestHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ai/chat/c-1/history", r.URL.Path)
		w.Write([]byte(`[
			{"role":"user","content":"Merhaba"},
			{"role":"assistant","content":"Merhaba! Nasıl yardımcı olabilirim?"}
		]`))
	}))
	defer srv.Close()

	msgs, err := newTestClient(srv.URL).History(context.Background(), testIdentity(), "c-1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Merhaba", msgs[0].Content)
}

// =============================================================================
// VIDEO CALL
// =============================================================================

func TestJoinVideoCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ai/premium-plus/video-call/join", r.URL.Path)
		var req joinRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "m-9", req.MeetingID)

		json.NewEncoder(w).Encode(JoinResult{
			Success:    true,
			MeetingURL: "https://longopass.daily.co/m-9",
			Token:      "tok",
		})
	}))
	defer srv.Close()

	result, err := newTestClient(srv.URL).JoinVideoCall(context.Background(), testIdentity(), "m-9")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "https://longopass.daily.co/m-9", result.MeetingURL)
}

func TestUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).StartConversation(context.Background(), testIdentity())
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

func TestCheckReachable(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	require.NoError(t, client.CheckReachable(context.Background()))
	assert.Equal(t, "/health", path)
}

func TestCheckReachableReportsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	err := client.CheckReachable(context.Background())
	require.Error(t, err)

	var clientErr *ClientError
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, ErrTypeConnection, clientErr.Type)
}
