// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/janderssonse/libgallery/internal/catalog"
	"github.com/janderssonse/libgallery/internal/deeplink"
	"github.com/janderssonse/libgallery/internal/logging"
	"github.com/janderssonse/libgallery/internal/tui/styles"
)

// DetailKeyMap defines the detail view key bindings.
type DetailKeyMap struct {
	Back key.Binding
	Open key.Binding
}

// DefaultDetailKeyMap returns the default key bindings.
func DefaultDetailKeyMap() DetailKeyMap {
	return DetailKeyMap{
		Back: key.NewBinding(key.WithKeys("esc", "d", "backspace"), key.WithHelp("esc", "back")),
		Open: key.NewBinding(key.WithKeys(KeyEnter), key.WithHelp("enter", "add")),
	}
}

// DetailModel shows everything known about one library as markdown.
//
//nolint:containedctx // TUI models require context for proper cancellation propagation
type DetailModel struct {
	ctx      context.Context
	styles   *styles.Styles
	library  catalog.Library
	link     deeplink.Options
	openURL  func(ctx context.Context, url string) error
	viewport viewport.Model
	keyMap   DetailKeyMap
	width    int
}

// NewDetail creates the detail view for library.
func NewDetail(ctx context.Context, styleConfig *styles.Styles, library catalog.Library, link deeplink.Options,
	openURL func(ctx context.Context, url string) error, width, height int,
) *DetailModel {
	model := &DetailModel{
		ctx:      ctx,
		styles:   styleConfig,
		library:  library,
		link:     link,
		openURL:  openURL,
		viewport: viewport.New(width, height),
		keyMap:   DefaultDetailKeyMap(),
		width:    width,
	}

	model.render()

	return model
}

// Init implements tea.Model.
func (m *DetailModel) Init() tea.Cmd {
	return nil
}

// Update handles scrolling and navigation keys.
func (m *DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height
		m.width = msg.Width
		m.render()

		return m, nil

	case ThemeChangedMsg:
		m.styles = msg.Styles
		m.render()

		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Back):
			return m, func() tea.Msg { return CloseDetailMsg{} }
		case key.Matches(msg, m.keyMap.Open):
			return m, m.open()
		}
	}

	var cmd tea.Cmd

	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

// View renders the scrollable markdown.
func (m *DetailModel) View() string {
	return m.viewport.View()
}

// Library returns the library shown.
func (m *DetailModel) Library() catalog.Library {
	return m.library
}

// FooterActions lists the keys shown in the footer.
func (m *DetailModel) FooterActions() []FooterAction {
	return []FooterAction{
		{Key: "j/k", Action: "scroll"},
		{Key: m.keyMap.Open.Help().Key, Action: "Add to " + deeplink.AppName(m.link.Referrer)},
		{Key: m.keyMap.Back.Help().Key, Action: m.keyMap.Back.Help().Desc},
	}
}

// Markdown returns the document rendered by the view.
func (m *DetailModel) Markdown() string {
	lib := m.library

	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", lib.Name)

	if len(lib.Authors) > 0 {
		authors := make([]string, 0, len(lib.Authors))

		for _, author := range lib.Authors {
			if author.URL != "" {
				authors = append(authors, fmt.Sprintf("[@%s](%s)", author.Name, author.URL))
			} else {
				authors = append(authors, "@"+author.Name)
			}
		}

		fmt.Fprintf(&b, "by %s\n\n", strings.Join(authors, ", "))
	}

	if lib.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", lib.Description)
	}

	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Created | %s |\n", catalog.FormatDate(lib.Created))

	if lib.Updated != lib.Created {
		fmt.Fprintf(&b, "| Updated | %s |\n", catalog.FormatDate(lib.Updated))
	}

	fmt.Fprintf(&b, "| Downloads | %s |\n", FormatCount(lib.Downloads.Total))
	fmt.Fprintf(&b, "| This week | %s |\n", FormatCount(lib.Downloads.Week))
	fmt.Fprintf(&b, "| Version | %d |\n", lib.VersionOrDefault())
	fmt.Fprintf(&b, "| Source | `%s` |\n\n", lib.Source)

	if len(lib.ItemNames) > 0 {
		fmt.Fprintf(&b, "## Items (%d)\n\n%s\n\n", len(lib.ItemNames), JoinItemNames(lib.ItemNames))
	}

	if lib.Preview != "" {
		fmt.Fprintf(&b, "Preview: %s\n\n", deeplink.PreviewURL(m.link.Site, lib))
	}

	fmt.Fprintf(&b, "Add to %s: %s\n", deeplink.AppName(m.link.Referrer), deeplink.AddLibraryURL(m.link, lib))

	return b.String()
}

func (m *DetailModel) render() {
	markdown := m.Markdown()

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.styles.GlamourStyle()),
		glamour.WithWordWrap(max(m.width-2, 20)),
	)
	if err != nil {
		m.viewport.SetContent(markdown)

		return
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		logging.Log.WithError(err).Debug("Markdown rendering failed")
		m.viewport.SetContent(markdown)

		return
	}

	m.viewport.SetContent(rendered)
}

func (m *DetailModel) open() tea.Cmd {
	if m.openURL == nil {
		return nil
	}

	target := deeplink.AddLibraryURL(m.link, m.library)
	ctx, open := m.ctx, m.openURL

	return func() tea.Msg {
		return LinkOpenedMsg{URL: target, Err: open(ctx, target)}
	}
}
