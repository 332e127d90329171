// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/libgallery/internal/sorting"
	"github.com/janderssonse/libgallery/internal/tui/styles"
)

// Help modal screen names.
const (
	HelpScreenGallery = "gallery"
	HelpScreenDetail  = "detail"
)

// HelpModal represents a modal overlay showing all available commands.
type HelpModal struct {
	visible  bool
	screen   string
	commands []HelpModalSection
	styles   *styles.Styles
	keys     HelpModalKeyMap
}

// HelpModalSection groups related commands.
type HelpModalSection struct {
	Title    string
	Commands []HelpModalCommand
}

// HelpModalCommand represents a single keyboard command.
type HelpModalCommand struct {
	Keys        string
	Description string
}

// HelpModalKeyMap holds the keys that open and close the modal.
type HelpModalKeyMap struct {
	Help  key.Binding
	Close key.Binding
}

// NewHelpModal creates a hidden help modal.
func NewHelpModal(styleConfig *styles.Styles) *HelpModal {
	modal := &HelpModal{
		styles: styleConfig,
		keys: HelpModalKeyMap{
			Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
			Close: key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "close help")),
		},
	}
	modal.SetScreen(HelpScreenGallery)

	return modal
}

// SetScreen updates the help content based on current screen.
func (h *HelpModal) SetScreen(screen string) {
	h.screen = screen
	h.commands = commandsForScreen(screen)
}

// SetStyles follows a theme change.
func (h *HelpModal) SetStyles(styleConfig *styles.Styles) {
	h.styles = styleConfig
}

// Toggle shows/hides the modal.
func (h *HelpModal) Toggle() {
	h.visible = !h.visible
}

// Hide closes the modal.
func (h *HelpModal) Hide() {
	h.visible = false
}

// IsVisible returns whether the modal is shown.
func (h *HelpModal) IsVisible() bool {
	return h.visible
}

// Sections returns the commands listed for the current screen.
func (h *HelpModal) Sections() []HelpModalSection {
	return h.commands
}

// Keys returns the modal key bindings.
func (h *HelpModal) Keys() HelpModalKeyMap {
	return h.keys
}

// Update closes the modal on its help or close keys.
func (h *HelpModal) Update(msg tea.Msg) tea.Cmd {
	if !h.visible {
		return nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, h.keys.Help) || key.Matches(msg, h.keys.Close) {
			h.Hide()
		}
	}

	return nil
}

// View renders the modal box.
func (h *HelpModal) View() string {
	if !h.visible {
		return ""
	}

	keyStyle := h.styles.PrimaryText.Bold(true).Width(14)
	sectionStyle := h.styles.Subtitle.MarginTop(1)

	var content strings.Builder

	content.WriteString(h.styles.Title.Render("Keys"))
	content.WriteString("\n")

	for _, section := range h.commands {
		content.WriteString(sectionStyle.Render(section.Title))
		content.WriteString("\n")

		for _, cmd := range section.Commands {
			content.WriteString(keyStyle.Render(cmd.Keys))
			content.WriteString(" ")
			content.WriteString(cmd.Description)
			content.WriteString("\n")
		}
	}

	content.WriteString("\n")
	content.WriteString(h.styles.MutedText.Render("Press ? or Esc to close"))

	return h.styles.Border.Padding(1, 2).MaxWidth(64).Render(content.String())
}

func commandsForScreen(screen string) []HelpModalSection {
	general := HelpModalSection{
		Title: "General",
		Commands: []HelpModalCommand{
			{"t", "Switch light/dark theme"},
			{"?", "Toggle this help"},
			{"q / ctrl+c", "Quit"},
		},
	}

	if screen == HelpScreenDetail {
		return []HelpModalSection{
			{
				Title: "Details",
				Commands: []HelpModalCommand{
					{"j/k or ↑↓", "Scroll"},
					{"Enter", "Add library to the drawing app"},
					{"Esc / d", "Back to the gallery"},
				},
			},
			general,
		}
	}

	labels := make([]string, 0, len(sorting.All()))
	for _, strategy := range sorting.All() {
		labels = append(labels, strategy.Label)
	}

	return []HelpModalSection{
		{
			Title: "Browse",
			Commands: []HelpModalCommand{
				{"j/k or ↑↓", "Move between libraries"},
				{"s", "Cycle sort: " + strings.Join(labels, ", ")},
				{"d", "Show library details"},
				{"Enter", "Add library to the drawing app"},
			},
		},
		{
			Title: "Search",
			Commands: []HelpModalCommand{
				{"/", "Search names, descriptions and items"},
				{"Enter", "Apply search now"},
				{"Esc", "Clear search"},
			},
		},
		general,
	}
}

// RenderModalOverlay centers modal in a width x height area.
func RenderModalOverlay(modal string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}
