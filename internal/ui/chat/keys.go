// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the chat screen key bindings.
type keyMap struct {
	Send        key.Binding
	NewChat     key.Binding
	ListChats   key.Binding
	ToggleProds key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Cancel      key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Send: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "gönder"),
	),
	NewChat: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "yeni konuşma"),
	),
	ListChats: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "konuşmalar"),
	),
	ToggleProds: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "ürünler"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "yukarı"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "aşağı"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "kapat"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "çıkış"),
	),
}
