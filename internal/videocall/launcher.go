// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package videocall joins premium-plus video consultations.
//
// Joining is a backend handshake that returns a meeting URL and a short-lived
// access token; the launcher opens the resulting URL in the system browser.
package videocall

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/longopass/longo-tui/internal/api"
	"github.com/longopass/longo-tui/internal/identity"
	"github.com/longopass/longo-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrPlanRequired is returned when the identity is not premium_plus.
	ErrPlanRequired = errors.New("video calls require the premium_plus plan")
	// ErrJoinRejected is returned when the backend declines the join.
	ErrJoinRejected = errors.New("the backend rejected the video call join")
)

// JoinTimeout bounds the join handshake. A hung join must not freeze the
// client; after this long the user gets an error instead of a spinner.
const JoinTimeout = 10 * time.Second

// =============================================================================
// CALL
// =============================================================================

// Call is a joined video call.
type Call struct {
	MeetingID  string
	MeetingURL string
	Token      string
	StartedAt  time.Time
}

// TokenLifetime is how long a join token stays usable.
const TokenLifetime = 1 * time.Hour

// Expired reports whether the join token has aged out. An expired call needs
// a fresh join, not a retry of the same URL.
func (c *Call) Expired() bool {
	return time.Since(c.StartedAt) > TokenLifetime
}

// JoinURL returns the meeting URL with the access token attached.
func (c *Call) JoinURL() string {
	if c.Token == "" {
		return c.MeetingURL
	}
	sep := "?"
	if strings.Contains(c.MeetingURL, "?") {
		sep = "&"
	}
	return c.MeetingURL + sep + "t=" + url.QueryEscape(c.Token)
}

// =============================================================================
// LAUNCHER
// =============================================================================

// Launcher joins video calls for the resolved identity.
type Launcher struct {
	client   *api.Client
	resolver *identity.Resolver

	// openURL launches the system browser; overridable in tests.
	openURL func(string) error
}

// NewLauncher creates a video call launcher.
func NewLauncher(client *api.Client, resolver *identity.Resolver) *Launcher {
	return &Launcher{
		client:   client,
		resolver: resolver,
		openURL:  openBrowser,
	}
}

// Join performs the join handshake for meetingID and returns the call.
// The identity must be a real premium_plus account; everything is checked
// before any network traffic.
func (l *Launcher) Join(ctx context.Context, meetingID string) (*Call, error) {
	meetingID = strings.TrimSpace(meetingID)
	if meetingID == "" {
		return nil, errors.New("meeting id cannot be empty")
	}

	resolved, err := l.resolver.Resolve()
	if err != nil {
		return nil, err
	}
	if resolved.Plan != model.PlanPremiumPlus {
		return nil, fmt.Errorf("%w (current plan: %s)", ErrPlanRequired, resolved.Plan)
	}

	ctx, cancel := context.WithTimeout(ctx, JoinTimeout)
	defer cancel()

	ident := api.Identity{UserID: resolved.UserID, Plan: resolved.Plan, Level: resolved.Level}
	result, err := l.client.JoinVideoCall(ctx, ident, meetingID)
	if err != nil {
		return nil, err
	}

	if !result.Success || result.MeetingURL == "" {
		if result.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrJoinRejected, result.Message)
		}
		return nil, ErrJoinRejected
	}

	return &Call{
		MeetingID:  meetingID,
		MeetingURL: result.MeetingURL,
		Token:      result.Token,
		StartedAt:  time.Now(),
	}, nil
}

// Open launches the call URL in the system browser.
func (l *Launcher) Open(call *Call) error {
	if call == nil {
		return errors.New("no call to open")
	}
	if call.Expired() {
		return errors.New("the call token has expired, join again")
	}
	return l.openURL(call.JoinURL())
}
