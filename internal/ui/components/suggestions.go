// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/longopass/longo-tui/internal/api"
	"github.com/longopass/longo-tui/internal/ui/styles"
	"github.com/longopass/longo-tui/internal/util"
)

// =============================================================================
// PRODUCT SUGGESTIONS
// =============================================================================

// Suggestions is the collapsible product recommendation panel attached to an
// assistant reply. It starts collapsed; only the count shows until toggled.
type Suggestions struct {
	Products []api.Product
	Expanded bool
}

// NewSuggestions creates a panel for the given products.
func NewSuggestions(products []api.Product) Suggestions {
	return Suggestions{Products: products}
}

// Empty reports whether there is anything to show.
func (s Suggestions) Empty() bool {
	return len(s.Products) == 0
}

// Toggle flips the expanded state.
func (s *Suggestions) Toggle() {
	s.Expanded = !s.Expanded
}

// Header returns the collapsed summary line.
func (s Suggestions) Header() string {
	return fmt.Sprintf("Önerilen ürünler (%d)", len(s.Products))
}

// Render renders the panel for the given theme and width.
func (s Suggestions) Render(theme *styles.Theme, width int) string {
	if s.Empty() {
		return ""
	}

	nameWidth := 40
	if width > 0 && width-20 < nameWidth {
		nameWidth = width - 20
	}
	if nameWidth < 10 {
		nameWidth = 10
	}

	var b strings.Builder

	hint := "tab: göster"
	if s.Expanded {
		hint = "tab: gizle"
	}
	b.WriteString(theme.SuggestionHeader.Render(s.Header()))
	b.WriteString("  ")
	b.WriteString(theme.SessionMeta.Render(hint))

	if s.Expanded {
		for _, p := range s.Products {
			b.WriteString("\n")
			b.WriteString(theme.SuggestionItem.Render("• " + util.TruncateWidth(p.Name, nameWidth)))
			if p.Reason != "" {
				b.WriteString(" ")
				b.WriteString(theme.SuggestionReason.Render(util.TruncateWidth(p.Reason, nameWidth)))
			}
		}
	}

	return theme.SuggestionBox.Render(b.String())
}
