// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/longopass/longo-tui/internal/model"
	"github.com/longopass/longo-tui/internal/ui/components"
)

// View renders the chat screen.
func (m *Model) View() string {
	if !m.ready {
		return "Yükleniyor..."
	}

	if m.picking {
		return m.viewPicker()
	}

	var b strings.Builder

	if !m.compact {
		b.WriteString(m.viewHeader())
		b.WriteString("\n")
	}

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if notice := components.RenderNotice(m.notice, m.width); notice != "" {
		b.WriteString(notice)
		b.WriteString("\n")
	}

	b.WriteString(m.viewInput())
	b.WriteString("\n")
	b.WriteString(m.viewStatusBar())

	return b.String()
}

func (m *Model) viewHeader() string {
	title := m.theme.HeaderTitle.Render("Longo")
	subtitle := m.theme.HeaderSubtitle.Render("Sağlık Asistanı")
	return m.theme.Header.Width(m.width - 2).Render(title + " · " + subtitle)
}

func (m *Model) viewInput() string {
	if m.sending {
		return m.theme.InputContainer.Width(m.width - 2).Render(
			m.spin.View() + m.theme.ThinkingText.Render(" Longo yazıyor..."),
		)
	}
	return m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
}

func (m *Model) viewStatusBar() string {
	badge := m.theme.PlanBadge.Render(m.plan.DisplayName())

	shortcuts := []string{
		m.theme.ShortcutKey.Render("enter") + m.theme.ShortcutDesc.Render(" gönder"),
		m.theme.ShortcutKey.Render("ctrl+n") + m.theme.ShortcutDesc.Render(" yeni"),
		m.theme.ShortcutKey.Render("ctrl+l") + m.theme.ShortcutDesc.Render(" konuşmalar"),
		m.theme.ShortcutKey.Render("ctrl+c") + m.theme.ShortcutDesc.Render(" çıkış"),
	}

	return m.theme.StatusBar.Width(m.width).Render(
		badge + "  " + strings.Join(shortcuts, "  "),
	)
}

// viewPicker renders the conversation picker overlay.
func (m *Model) viewPicker() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Konuşmalar"))
	b.WriteString("\n\n")

	if len(m.conversations) == 0 {
		b.WriteString(m.theme.SessionMeta.Render("Henüz kayıtlı konuşma yok."))
	}

	for i, meta := range m.conversations {
		title := meta.Title
		if title == "" {
			title = "Yeni konuşma"
		}
		line := fmt.Sprintf("%s  %s", title,
			m.theme.SessionMeta.Render(meta.UpdatedAt.Format("02.01.2006 15:04")))

		if i == m.selected {
			b.WriteString(m.theme.SessionItemSelected.Render(line))
		} else {
			b.WriteString(m.theme.SessionItem.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.ShortcutDesc.Render("enter: aç  esc: kapat"))

	return m.theme.SessionList.Width(m.width - 2).Render(b.String())
}

// refreshViewport re-renders the transcript into the viewport and follows
// the newest message.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	var blocks []string
	for i := range m.entries {
		blocks = append(blocks, m.renderEntry(&m.entries[i]))
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, blocks...))
	m.viewport.GotoBottom()
}

// renderEntry renders one transcript item.
func (m *Model) renderEntry(e *entry) string {
	label := m.theme.AssistantLabel
	bubble := m.theme.AssistantBubble
	if e.msg.Role == model.RoleUser {
		label = m.theme.UserLabel
		bubble = m.theme.UserBubble
	}

	if e.limit {
		// The limit turn gets the amber notice box instead of a bubble.
		return m.theme.LimitNotice.Render(e.msg.Content) + "\n"
	}

	content := e.msg.Content
	if e.msg.Role == model.RoleAssistant && m.renderer != nil {
		if rendered, err := m.renderer.Render(content); err == nil {
			content = strings.TrimRight(rendered, "\n")
		}
	}

	out := label.Render(e.msg.Role.DisplayName()) + "\n" + bubble.Render(content)
	if !e.suggestions.Empty() {
		out += "\n" + e.suggestions.Render(m.theme, m.width)
	}
	return out + "\n"
}
