// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session drives the conversation lifecycle: one controller owns the
// active conversation, sends turns through the backend, and keeps the
// free-plan history cache in step.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/longopass/longo-tui/internal/api"
	"github.com/longopass/longo-tui/internal/history"
	"github.com/longopass/longo-tui/internal/identity"
	"github.com/longopass/longo-tui/internal/model"
)

// =============================================================================
// FIXED MESSAGES
// =============================================================================

// User-facing fallback texts, shown verbatim in the transcript.
const (
	// GenericFailureText replaces the assistant turn when a send fails for
	// any reason other than the daily limit.
	GenericFailureText = "Üzgünüm, bir hata oluştu. Lütfen tekrar deneyin."

	// DailyLimitText is shown when the backend reports the daily question
	// limit, regardless of what the backend put in the response body.
	DailyLimitText = "🎯 Günlük soru limitiniz doldu! Yarın tekrar konuşmaya devam edebilirsiniz."
)

// =============================================================================
// STATE
// =============================================================================

// State is the conversation lifecycle state.
type State int

const (
	// StateNoConversation means no conversation exists yet; the first send
	// will create one.
	StateNoConversation State = iota
	// StateActive means a conversation id is held and sends append to it.
	StateActive
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "no-conversation"
}

// ErrBusy is returned when a send is attempted while another is in flight.
var ErrBusy = errors.New("a message is already being sent")

// Turn is one completed exchange as seen by the presentation layer.
type Turn struct {
	User         model.Message
	Assistant    model.Message
	Products     []api.Product
	LimitReached bool
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the active conversation. All methods are safe for
// concurrent use; at most one send is in flight at a time.
type Controller struct {
	client   *api.Client
	resolver *identity.Resolver
	cache    *history.Cache

	mu             sync.Mutex
	conversationID string
	inFlight       bool
}

// NewController creates a conversation controller. The cache may be nil when
// local history is disabled.
func NewController(client *api.Client, resolver *identity.Resolver, cache *history.Cache) *Controller {
	return &Controller{
		client:   client,
		resolver: resolver,
		cache:    cache,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conversationID == "" {
		return StateNoConversation
	}
	return StateActive
}

// ConversationID returns the active conversation id, or "" when none exists.
func (c *Controller) ConversationID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conversationID
}

// Sending reports whether a send is currently in flight.
func (c *Controller) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Identity resolves the current identity. Identity failures surface before
// any network traffic.
func (c *Controller) Identity() (api.Identity, error) {
	resolved, err := c.resolver.Resolve()
	if err != nil {
		return api.Identity{}, err
	}
	return api.Identity{UserID: resolved.UserID, Plan: resolved.Plan, Level: resolved.Level}, nil
}

// EnsureConversation guarantees an active conversation, creating one on the
// backend only when none exists yet.
func (c *Controller) EnsureConversation(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.conversationID != "" {
		id := c.conversationID
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	ident, err := c.Identity()
	if err != nil {
		return "", err
	}

	id, err := c.client.StartConversation(ctx, ident)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.conversationID = id
	c.mu.Unlock()
	return id, nil
}

// StartNew abandons the current conversation and creates a fresh one. For
// free-plan identities the local history cache is cleared along with it, so a
// new chat really starts empty.
func (c *Controller) StartNew(ctx context.Context) (string, error) {
	ident, err := c.Identity()
	if err != nil {
		return "", err
	}

	id, err := c.client.StartConversation(ctx, ident)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.conversationID = id
	c.mu.Unlock()

	if c.cache != nil {
		if err := c.cache.Clear(ident.UserID); err != nil {
			return id, fmt.Errorf("conversation started but local history was not cleared: %w", err)
		}
	}
	return id, nil
}

// LoadExisting switches to a server-side conversation and returns its
// transcript. It never creates a conversation; the id must already exist.
func (c *Controller) LoadExisting(ctx context.Context, conversationID string) ([]model.Message, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, errors.New("conversation id cannot be empty")
	}

	ident, err := c.Identity()
	if err != nil {
		return nil, err
	}

	msgs, err := c.client.History(ctx, ident, conversationID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.conversationID = conversationID
	c.mu.Unlock()
	return msgs, nil
}

// Conversations lists the server-side conversations for the current identity.
func (c *Controller) Conversations(ctx context.Context) ([]model.ConversationMeta, error) {
	ident, err := c.Identity()
	if err != nil {
		return nil, err
	}
	return c.client.ListConversations(ctx, ident)
}

// LocalHistory returns the cached free-plan transcript for the current
// identity. Paid plans get an empty slice.
func (c *Controller) LocalHistory() ([]model.Message, error) {
	if c.cache == nil {
		return nil, nil
	}
	ident, err := c.Identity()
	if err != nil {
		return nil, err
	}
	return c.cache.Read(ident.UserID)
}

// Send submits one user turn and returns the completed exchange.
//
// Whitespace-only input is dropped without any network traffic and without
// consuming the in-flight slot. Exactly one request goes out per accepted
// send. A daily-limit response still yields a Turn: the fixed limit text
// stands in for the assistant reply so the transcript stays coherent.
func (c *Controller) Send(ctx context.Context, text string) (*Turn, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.inFlight = true
	c.mu.Unlock()

	// The in-flight flag always clears, whatever the send outcome.
	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	ident, err := c.Identity()
	if err != nil {
		return nil, err
	}

	conversationID, err := c.EnsureConversation(ctx)
	if err != nil {
		return nil, err
	}

	userMsg := model.NewUserMessage(trimmed)
	c.cacheAppend(ident.UserID, userMsg)

	reply, err := c.client.SendMessage(ctx, ident, conversationID, trimmed)
	if err != nil {
		if api.IsDailyLimit(err) {
			turn := &Turn{
				User:         userMsg,
				Assistant:    model.NewAssistantMessage(DailyLimitText),
				LimitReached: true,
			}
			c.cacheAppend(ident.UserID, turn.Assistant)
			return turn, nil
		}
		return nil, err
	}

	assistantText := reply.Text
	if reply.LimitReached {
		// The backend marked the reply as the last one of the day. Show
		// its text when it sent one, the fixed notice otherwise.
		if assistantText == "" {
			assistantText = DailyLimitText
		}
	}

	turn := &Turn{
		User:         userMsg,
		Assistant:    model.NewAssistantMessage(assistantText),
		Products:     reply.Products,
		LimitReached: reply.LimitReached,
	}
	c.cacheAppend(ident.UserID, turn.Assistant)

	if reply.ConversationID != "" && reply.ConversationID != conversationID {
		// The backend migrated the conversation; follow it.
		c.mu.Lock()
		c.conversationID = reply.ConversationID
		c.mu.Unlock()
	}

	return turn, nil
}

// cacheAppend mirrors a message into the free-plan cache. Cache failures
// never fail the exchange.
func (c *Controller) cacheAppend(userID string, msg model.Message) {
	if c.cache == nil {
		return
	}
	_ = c.cache.Append(userID, msg)
}
