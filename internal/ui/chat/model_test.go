// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/longopass/longo-tui/internal/api"
	"github.com/longopass/longo-tui/internal/model"
	"github.com/longopass/longo-tui/internal/session"
	"github.com/longopass/longo-tui/internal/ui/components"
)

func newTestModel() *Model {
	m := New(Options{Plan: model.PlanFree})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func TestWhitespaceSubmitDoesNothing(t *testing.T) {
	m := newTestModel()
	m.input.SetValue("   \t ")

	_, cmd := m.submit()
	if cmd != nil {
		t.Error("whitespace submit produced a command")
	}
	if m.sending {
		t.Error("whitespace submit set the in-flight flag")
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}
}

func TestSubmitDisablesInputUntilResult(t *testing.T) {
	m := newTestModel()
	m.input.SetValue("Magnezyum ne işe yarar?")

	_, cmd := m.submit()
	if cmd == nil {
		t.Fatal("submit produced no command")
	}
	if !m.sending {
		t.Error("submit did not set the in-flight flag")
	}

	// A second submit while in flight is ignored.
	m.input.SetValue("ikinci")
	if _, cmd := m.submit(); cmd != nil {
		t.Error("submit while sending produced a command")
	}

	// The result always re-enables the input, even on failure.
	m.handleSendResult(sendResultMsg{err: api.ErrTimeout})
	if m.sending {
		t.Error("in-flight flag stuck after a failed send")
	}
	if !m.input.Focused() {
		t.Error("input not re-focused after a failed send")
	}
}

func TestSendResultAppendsTurn(t *testing.T) {
	m := newTestModel()
	m.sending = true

	turn := &session.Turn{
		User:      model.NewUserMessage("soru"),
		Assistant: model.NewAssistantMessage("cevap"),
		Products:  []api.Product{{ID: "p1", Name: "Çinko"}},
	}
	m.handleSendResult(sendResultMsg{turn: turn})

	if len(m.entries) != 2 {
		t.Fatalf("transcript has %d entries, want 2", len(m.entries))
	}
	if m.entries[1].suggestions.Empty() {
		t.Error("assistant entry lost its product suggestions")
	}
}

func TestLimitTurnShowsNotice(t *testing.T) {
	m := newTestModel()
	m.sending = true

	turn := &session.Turn{
		User:         model.NewUserMessage("soru"),
		Assistant:    model.NewAssistantMessage(session.DailyLimitText),
		LimitReached: true,
	}
	_, cmd := m.handleSendResult(sendResultMsg{turn: turn})

	if !m.notice.Active() {
		t.Error("limit turn did not raise a notice")
	}
	if m.notice.Kind != components.NoticeLimit {
		t.Errorf("notice kind = %v, want NoticeLimit", m.notice.Kind)
	}
	if cmd == nil {
		t.Error("limit notice has no expiry command")
	}
}

func TestStaleNoticeExpiryIgnored(t *testing.T) {
	m := newTestModel()
	m.setNotice("güncel", components.NoticeInfo)

	// An expiry for an earlier, replaced notice must not clear the current one.
	m.Update(components.NoticeExpiredMsg{CreatedAt: time.Now().Add(-time.Minute)})
	if !m.notice.Active() {
		t.Error("stale expiry cleared the current notice")
	}

	m.Update(components.NoticeExpiredMsg{CreatedAt: m.notice.CreatedAt})
	if m.notice.Active() {
		t.Error("matching expiry did not clear the notice")
	}
}

func TestToggleSuggestions(t *testing.T) {
	m := newTestModel()
	m.entries = append(m.entries, entry{
		msg:         model.NewAssistantMessage("cevap"),
		suggestions: components.NewSuggestions([]api.Product{{ID: "p1", Name: "Çinko"}}),
	})

	s := m.lastSuggestions()
	if s == nil {
		t.Fatal("lastSuggestions() returned nil")
	}
	s.Toggle()
	if !m.entries[0].suggestions.Expanded {
		t.Error("toggle did not mutate the stored entry")
	}
}

func TestConfigReloadUpdatesPlan(t *testing.T) {
	m := newTestModel()
	if m.plan != model.PlanFree {
		t.Fatalf("initial plan = %v, want free", m.plan)
	}

	_, cmd := m.Update(ConfigReloadedMsg{Plan: model.PlanPremium})

	if m.plan != model.PlanPremium {
		t.Errorf("plan = %v, want premium after reload", m.plan)
	}
	if !m.notice.Active() || m.notice.Kind != components.NoticeInfo {
		t.Errorf("expected an active info notice, got %+v", m.notice)
	}
	if cmd == nil {
		t.Error("expected an expiry command for the reload notice")
	}
}
