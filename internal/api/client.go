// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the Longo chat backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/longopass/longo-tui/internal/model"
)

// limitMarker is the prefix the backend prepends to a reply when the daily
// question limit was reached inside an otherwise successful response. The
// marker itself is never shown to the user.
const limitMarker = "LIMIT_POPUP:"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the Longo API client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is comparisons against the sentinel values below.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeUnauthorized
	ErrTypeDailyLimit
	ErrTypeNotFound
	ErrTypeInvalidResponse
	ErrTypeThrottled
)

// Sentinel errors for easy checking.
var (
	ErrTimeout      = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrUnauthorized = &ClientError{Type: ErrTypeUnauthorized, Message: "backend rejected the integration credentials"}
	ErrDailyLimit   = &ClientError{Type: ErrTypeDailyLimit, Message: "daily question limit reached"}
	ErrNotFound     = &ClientError{Type: ErrTypeNotFound, Message: "conversation not found"}
	ErrThrottled    = &ClientError{Type: ErrTypeThrottled, Message: "sending too quickly"}
)

// IsDailyLimit checks if an error signals the daily question limit.
func IsDailyLimit(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeDailyLimit
	}
	return false
}

// IsThrottled checks if an error is the local send throttle.
func IsThrottled(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeThrottled
	}
	return false
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the Longo API client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: https://longo-ai.onrender.com)
	BaseURL string

	// Username and Password are the per-integration credentials sent as
	// custom headers on every request. They are issued per deployment and
	// must come from configuration, never from source.
	Username string
	Password string

	// Timeout for requests (default: 60s; chat replies can be slow)
	Timeout time.Duration

	// SendBurst limits how many sends may be issued back to back before the
	// client-side throttle kicks in (default: 2, refilled once per second).
	SendBurst int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   "https://longo-ai.onrender.com",
		Timeout:   60 * time.Second,
		SendBurst: 2,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the Longo backend. Requests are issued
// once; there are no automatic retries. Failures surface as ClientError
// values the caller converts into user-visible messages.
//
// The Client is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client

	// Guards against rapid double-submission from non-UI triggers; the
	// input control being disabled during flight covers UI triggers.
	sendLimiter *rate.Limiter
}

// NewClient creates a new Longo API client with custom configuration.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "https://longo-ai.onrender.com"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.SendBurst == 0 {
		config.SendBurst = 2
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		sendLimiter: rate.NewLimiter(rate.Every(time.Second), config.SendBurst),
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// CheckReachable verifies that the backend answers on its health endpoint.
func (c *Client) CheckReachable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/health", nil)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return &ClientError{Type: ErrTypeConnection, Message: "backend is not reachable", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Type:    ErrTypeConnection,
			Message: "unexpected status from backend: " + resp.Status,
		}
	}

	return nil
}

// =============================================================================
// CONVERSATION OPERATIONS
// =============================================================================

// StartConversation asks the backend for a fresh conversation id.
// The id is opaque; callers must not interpret or fabricate it.
func (c *Client) StartConversation(ctx context.Context, id Identity) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/ai/chat/start", []byte("{}"), id)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.transportError(err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return "", err
	}

	var result startResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	if result.ConversationID == "" {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "backend returned no conversation id"}
	}

	return result.ConversationID, nil
}

// SendMessage sends one user message in the given conversation and interprets
// the reply. An HTTP 429 maps to ErrDailyLimit; a reply text carrying the
// limit marker is stripped and flagged via ChatReply.LimitReached.
func (c *Client) SendMessage(ctx context.Context, id Identity, conversationID, text string) (*ChatReply, error) {
	if !c.sendLimiter.Allow() {
		return nil, ErrThrottled
	}

	body, err := json.Marshal(chatRequest{ConversationID: conversationID, Text: text})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/ai/chat", body, id)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	reply := &ChatReply{
		ConversationID: result.ConversationID,
		Text:           result.Reply,
		Products:       result.Products,
		Latency:        time.Duration(result.LatencyMS) * time.Millisecond,
	}
	if stripped, ok := strings.CutPrefix(reply.Text, limitMarker); ok {
		reply.Text = strings.TrimSpace(stripped)
		reply.LimitReached = true
	}

	return reply, nil
}

// ListConversations lists the conversations stored for the given identity,
// most recently updated first (backend order is preserved).
func (c *Client) ListConversations(ctx context.Context, id Identity) ([]model.ConversationMeta, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/ai/chat/conversations", nil, id)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var rows []conversationRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	metas := make([]model.ConversationMeta, 0, len(rows))
	for _, row := range rows {
		metas = append(metas, model.ConversationMeta{
			ID:        row.ConversationID,
			Title:     row.Title,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return metas, nil
}

// History retrieves the backend-held transcript of a conversation.
func (c *Client) History(ctx context.Context, id Identity, conversationID string) ([]model.Message, error) {
	path := "/ai/chat/" + url.PathEscape(conversationID) + "/history"
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, id)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var rows []historyRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	messages := make([]model.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, model.NewMessage(model.Role(row.Role), row.Content))
	}
	return messages, nil
}

// =============================================================================
// VIDEO CALL
// =============================================================================

// JoinVideoCall asks the backend for the meeting URL and token of a
// scheduled premium-plus video call.
func (c *Client) JoinVideoCall(ctx context.Context, id Identity, meetingID string) (*JoinResult, error) {
	body, err := json.Marshal(joinRequest{MeetingID: meetingID})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/ai/premium-plus/video-call/join", body, id)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var result JoinResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return &result, nil
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

// newRequest builds a request carrying the fixed contract headers: the
// integration credentials, the resolved user id and plan, and the numeric
// level when one is known.
func (c *Client) newRequest(ctx context.Context, method, path string, body []byte, id Identity) (*http.Request, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("username", c.config.Username)
	req.Header.Set("password", c.config.Password)
	req.Header.Set("x-user-id", id.UserID)
	req.Header.Set("x-user-plan", id.Plan.String())
	if id.Level > 0 {
		req.Header.Set("x-user-level", strconv.Itoa(id.Level))
	}

	return req, nil
}

// transportError maps low-level transport failures to client errors.
func (c *Client) transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTimeout
	}
	return &ClientError{Type: ErrTypeConnection, Message: "request failed", Cause: err}
}

// checkStatus converts non-2xx responses into typed errors, reading the
// backend's error detail when one is present.
func (c *Client) checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrDailyLimit
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	}

	var detail errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&detail); err == nil && detail.Detail != "" {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: detail.Detail}
	}
	return &ClientError{
		Type:    ErrTypeInvalidResponse,
		Message: "request failed: " + resp.Status,
	}
}
