// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

// Package styles defines consistent visual styling for TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Palette is the set of colors a theme is built from.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Muted      lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color
	Highlight  lipgloss.Color
}

// Tokyo Night and its day variant.
var palettes = map[string]Palette{ //nolint:gochecknoglobals
	ThemeDark: {
		Primary:    "#7aa2f7",
		Secondary:  "#bb9af7",
		Success:    "#9ece6a",
		Warning:    "#e0af68",
		Error:      "#f7768e",
		Muted:      "#565f89",
		Background: "#1a1b26",
		Foreground: "#c0caf5",
		Highlight:  "#ff9e64",
	},
	ThemeLight: {
		Primary:    "#2e7de9",
		Secondary:  "#9854f1",
		Success:    "#587539",
		Warning:    "#8c6c3e",
		Error:      "#f52a65",
		Muted:      "#848cb5",
		Background: "#e1e2e7",
		Foreground: "#3760bf",
		Highlight:  "#b15c00",
	},
}

// Styles contains all the styles used in the TUI.
type Styles struct {
	Theme string

	// Color palette
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color

	// Component styles
	Header   lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Card     lipgloss.Style
	Selected lipgloss.Style
	Button   lipgloss.Style
	Border   lipgloss.Style

	// Text styles (cached for performance)
	MutedText   lipgloss.Style
	PrimaryText lipgloss.Style
	SuccessText lipgloss.Style
	ErrorText   lipgloss.Style
	WarningText lipgloss.Style
	Mark        lipgloss.Style
}

// New creates the styles for theme; unknown names get the dark theme.
func New(theme string) *Styles {
	palette, ok := palettes[theme]
	if !ok {
		theme = ThemeDark
		palette = palettes[ThemeDark]
	}

	return &Styles{
		Theme:     theme,
		Primary:   palette.Primary,
		Secondary: palette.Secondary,
		Success:   palette.Success,
		Warning:   palette.Warning,
		Error:     palette.Error,
		Muted:     palette.Muted,

		Header: lipgloss.NewStyle().
			Background(palette.Primary).
			Foreground(palette.Background).
			Bold(true).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Italic(true),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Muted).
			Padding(0, 1),

		Selected: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary).
			Padding(0, 1),

		Button: lipgloss.NewStyle().
			Background(palette.Primary).
			Foreground(palette.Background).
			Bold(true).
			Padding(0, 1),

		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary),

		MutedText:   lipgloss.NewStyle().Foreground(palette.Muted),
		PrimaryText: lipgloss.NewStyle().Foreground(palette.Primary),
		SuccessText: lipgloss.NewStyle().Foreground(palette.Success),
		ErrorText:   lipgloss.NewStyle().Foreground(palette.Error),
		WarningText: lipgloss.NewStyle().Foreground(palette.Warning),
		Mark: lipgloss.NewStyle().
			Foreground(palette.Highlight).
			Bold(true).
			Underline(true),
	}
}

// Toggle returns the styles of the other theme.
func (s *Styles) Toggle() *Styles {
	if s.Theme == ThemeLight {
		return New(ThemeDark)
	}

	return New(ThemeLight)
}

// GlamourStyle names the markdown style matching the theme.
func (s *Styles) GlamourStyle() string {
	if s.Theme == ThemeLight {
		return "light"
	}

	return "dark"
}

// Keybinding returns styled keybinding text.
func (s *Styles) Keybinding(key, desc string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(s.Primary).
		Bold(true)

	return keyStyle.Render("["+key+"]") + " " + s.MutedText.Render(desc)
}
