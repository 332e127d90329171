// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/libgallery/internal/tui/styles"
)

// FooterAction represents a key-action pair for footer display.
type FooterAction struct {
	Key    string
	Action string
}

// RenderFooter creates a standardized footer with the given actions.
// Global help, theme and quit keys are appended when includeGlobal is set.
func RenderFooter(styleConfig *styles.Styles, width int, actions []FooterAction, includeGlobal bool) string {
	actionStrings := make([]string, 0, len(actions)+3)
	for _, action := range actions {
		actionStrings = append(actionStrings, styleConfig.Keybinding(action.Key, action.Action))
	}

	if includeGlobal {
		actionStrings = append(actionStrings,
			styleConfig.Keybinding("?", "help"),
			styleConfig.Keybinding("t", "theme"),
			styleConfig.Keybinding("q", "quit"))
	}

	footerText := strings.Join(actionStrings, "   ")

	return lipgloss.NewStyle().
		MaxWidth(width).
		Padding(0, 2).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(lipgloss.Color("240")).
		Width(width).
		Render(footerText)
}
