// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the longo TUI.
//
// Notices are non-blocking notifications: they appear above the input,
// auto-dismiss after a few seconds, and never stop the user from typing.
package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/longopass/longo-tui/internal/ui/styles"
)

// =============================================================================
// NOTICE TYPES
// =============================================================================

// NoticeKind represents the type of notice.
type NoticeKind int

const (
	// NoticeInfo is an informational notice (teal)
	NoticeInfo NoticeKind = iota
	// NoticeError is an error notice (rose)
	NoticeError
	// NoticeLimit is the daily-limit notice (amber)
	NoticeLimit
)

// NoticeDuration is how long a notice stays visible before auto-dismissing.
const NoticeDuration = 5 * time.Second

// =============================================================================
// NOTICE
// =============================================================================

// Notice is a transient notification.
type Notice struct {
	Message   string
	Kind      NoticeKind
	CreatedAt time.Time
}

// NewNotice creates a notice of the given kind.
func NewNotice(message string, kind NoticeKind) Notice {
	return Notice{
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
}

// Expired reports whether the notice should be dismissed.
func (n Notice) Expired() bool {
	return time.Since(n.CreatedAt) >= NoticeDuration
}

// Active reports whether the notice has content and has not expired.
func (n Notice) Active() bool {
	return n.Message != "" && !n.Expired()
}

// NoticeExpiredMsg is sent when a notice's display time is up.
type NoticeExpiredMsg struct {
	CreatedAt time.Time
}

// ExpireCmd returns a command that fires when the notice expires. The
// CreatedAt echo lets the model ignore expiries for superseded notices.
func (n Notice) ExpireCmd() tea.Cmd {
	createdAt := n.CreatedAt
	return tea.Tick(NoticeDuration, func(time.Time) tea.Msg {
		return NoticeExpiredMsg{CreatedAt: createdAt}
	})
}

// =============================================================================
// RENDERING
// =============================================================================

// RenderNotice renders the notice box, empty string when inactive.
func RenderNotice(n Notice, width int) string {
	if !n.Active() {
		return ""
	}

	maxWidth := 70
	if width > 0 && width-4 < maxWidth {
		maxWidth = width - 4
	}
	if maxWidth < 20 {
		maxWidth = 20
	}

	var borderColor lipgloss.AdaptiveColor
	var icon string
	switch n.Kind {
	case NoticeError:
		borderColor = styles.Rose
		icon = styles.StatusIndicators.Error
	case NoticeLimit:
		borderColor = styles.Amber
		icon = styles.StatusIndicators.Warning
	default:
		borderColor = styles.Teal
		icon = styles.StatusIndicators.Info
	}

	box := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		MaxWidth(maxWidth)

	return box.Render(icon + " " + n.Message)
}
