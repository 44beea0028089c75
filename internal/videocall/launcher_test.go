// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

package videocall

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/longopass/longo-tui/internal/api"
	"github.com/longopass/longo-tui/internal/identity"
)

func premiumPlusResolver() *identity.Resolver {
	return identity.NewResolver(3, identity.WithConfigUserID("acct-1"))
}

func newTestLauncher(t *testing.T, handler http.HandlerFunc, resolver *identity.Resolver) (*Launcher, *atomic.Int64) {
	t.Helper()
	var joins atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		joins.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := api.NewClient(&api.ClientConfig{BaseURL: srv.URL, SendBurst: 100})
	return NewLauncher(client, resolver), &joins
}

func TestJoin(t *testing.T) {
	launcher, _ := newTestLauncher(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.JoinResult{
			Success:    true,
			MeetingURL: "https://longopass.daily.co/m-1",
			Token:      "tok-abc",
		})
	}, premiumPlusResolver())

	call, err := launcher.Join(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if call.MeetingURL != "https://longopass.daily.co/m-1" {
		t.Errorf("MeetingURL = %q", call.MeetingURL)
	}
	if call.JoinURL() != "https://longopass.daily.co/m-1?t=tok-abc" {
		t.Errorf("JoinURL() = %q, want token attached", call.JoinURL())
	}
	if call.Expired() {
		t.Error("fresh call reports expired")
	}
}

func TestJoinRequiresPremiumPlus(t *testing.T) {
	resolver := identity.NewResolver(2, identity.WithConfigUserID("acct-1"))
	launcher, joins := newTestLauncher(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.JoinResult{Success: true, MeetingURL: "https://x"})
	}, resolver)

	_, err := launcher.Join(context.Background(), "m-1")
	if !errors.Is(err, ErrPlanRequired) {
		t.Errorf("Join() error = %v, want ErrPlanRequired", err)
	}
	if joins.Load() != 0 {
		t.Error("plan check still reached the backend")
	}
}

func TestJoinRequiresRealIdentity(t *testing.T) {
	// premium_plus level with no resolvable account id
	launcher, joins := newTestLauncher(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.JoinResult{Success: true, MeetingURL: "https://x"})
	}, identity.NewResolver(3))

	_, err := launcher.Join(context.Background(), "m-1")
	if !errors.Is(err, identity.ErrIdentityRequired) {
		t.Errorf("Join() error = %v, want ErrIdentityRequired", err)
	}
	if joins.Load() != 0 {
		t.Error("identity failure still reached the backend")
	}
}

func TestJoinRejected(t *testing.T) {
	launcher, _ := newTestLauncher(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.JoinResult{
			Success: false,
			Message: "meeting not started yet",
		})
	}, premiumPlusResolver())

	_, err := launcher.Join(context.Background(), "m-1")
	if !errors.Is(err, ErrJoinRejected) {
		t.Errorf("Join() error = %v, want ErrJoinRejected", err)
	}
}

func TestJoinEmptyMeetingID(t *testing.T) {
	launcher, joins := newTestLauncher(t, func(w http.ResponseWriter, r *http.Request) {}, premiumPlusResolver())

	if _, err := launcher.Join(context.Background(), "   "); err == nil {
		t.Error("Join(\"\") succeeded, want error")
	}
	if joins.Load() != 0 {
		t.Error("empty meeting id still reached the backend")
	}
}

func TestOpenUsesJoinURL(t *testing.T) {
	launcher, _ := newTestLauncher(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.JoinResult{
			Success:    true,
			MeetingURL: "https://longopass.daily.co/m-2",
			Token:      "tok",
		})
	}, premiumPlusResolver())

	var opened string
	launcher.openURL = func(u string) error {
		opened = u
		return nil
	}

	call, err := launcher.Join(context.Background(), "m-2")
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if err := launcher.Open(call); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if opened != "https://longopass.daily.co/m-2?t=tok" {
		t.Errorf("opened %q, want the tokenised join URL", opened)
	}
}

func TestOpenExpiredCall(t *testing.T) {
	launcher, _ := newTestLauncher(t, func(w http.ResponseWriter, r *http.Request) {}, premiumPlusResolver())
	launcher.openURL = func(string) error { return nil }

	stale := &Call{
		MeetingURL: "https://longopass.daily.co/m-3",
		Token:      "tok",
		StartedAt:  time.Now().Add(-2 * TokenLifetime),
	}
	if err := launcher.Open(stale); err == nil {
		t.Error("Open() accepted an expired call")
	}
}
