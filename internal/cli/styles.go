// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared lipgloss styles for CLI output.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/longopass/longo-tui/internal/ui/styles"
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Teal).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Ocean).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(styles.UserBubbleFg).
			Bold(true)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(styles.AssistantBubbleFg).
				Bold(true)

	limitStyle = lipgloss.NewStyle().
			Foreground(styles.LimitNoticeFg).
			Background(styles.LimitNoticeBg).
			Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)
)
