// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

// Package tui hosts the interactive gallery browser.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/libgallery/internal/deeplink"
	"github.com/janderssonse/libgallery/internal/tui/models"
	"github.com/janderssonse/libgallery/internal/tui/styles"
	"golang.org/x/term"
)

// ErrNoTerminal is returned when the TUI is launched in a non-terminal environment.
var ErrNoTerminal = errors.New("TUI requires a terminal environment")

// Screen represents different TUI screens.
type Screen int

// Screens.
const (
	GalleryScreen Screen = iota
	DetailScreen
)

// Title is shown in the header.
const Title = "Library Gallery"

// Options configures the application.
type Options struct {
	Gallery models.GalleryOptions
	Theme   string
}

// App keeps the persistent header and footer and delegates the content area
// to the active screen model.
//
//nolint:containedctx // TUI models require context for proper cancellation propagation
type App struct {
	ctx     context.Context
	opts    Options
	styles  *styles.Styles
	screen  Screen
	gallery *models.GalleryModel
	detail  *models.DetailModel
	help    *models.HelpModal

	width    int
	height   int
	quitting bool
}

// NewApp creates the application with the gallery as its first screen.
func NewApp(ctx context.Context, opts Options) *App {
	styleConfig := styles.New(opts.Theme)

	return &App{
		ctx:     ctx,
		opts:    opts,
		styles:  styleConfig,
		screen:  GalleryScreen,
		gallery: models.NewGallery(ctx, styleConfig, opts.Gallery),
		help:    models.NewHelpModal(styleConfig),
		width:   80,
		height:  24,
	}
}

// Run starts the program and blocks until the user quits.
func (a *App) Run(ctx context.Context) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) { //nolint:gosec // file descriptors fit in int
		return ErrNoTerminal
	}

	program := tea.NewProgram(
		a,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	a.gallery.SetSender(program.Send)
	defer a.gallery.Close()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI application failed: %w", err)
	}

	return nil
}

// Init implements the tea.Model interface.
func (a *App) Init() tea.Cmd {
	return a.gallery.Init()
}

// Update implements the tea.Model interface with global key handling.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		return a, a.resize()

	case tea.KeyMsg:
		return a.handleKeyMessage(msg)

	case models.ShowDetailMsg:
		a.detail = models.NewDetail(a.ctx, a.styles, msg.Library, a.opts.Gallery.Link,
			a.opts.Gallery.Sources.OpenURL, a.width, a.contentHeight())
		a.screen = DetailScreen

		return a, nil

	case models.CloseDetailMsg:
		a.detail = nil
		a.screen = GalleryScreen

		return a, nil

	case models.SearchActivatedMsg:
		return a, nil
	}

	// Loads, searches and link results always belong to the gallery.
	_, cmd := a.gallery.Update(msg)

	return a, cmd
}

// View implements the tea.Model interface.
func (a *App) View() string {
	if a.quitting {
		return models.GoodbyeMessage
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), a.renderContent(), a.renderFooter())
}

// HelpVisible reports whether the key help overlay is shown.
func (a *App) HelpVisible() bool {
	return a.help.IsVisible()
}

// CurrentScreen returns the active screen.
func (a *App) CurrentScreen() Screen {
	return a.screen
}

// Styles returns the active styles.
func (a *App) Styles() *styles.Styles {
	return a.styles
}

// Gallery returns the gallery screen model.
func (a *App) Gallery() *models.GalleryModel {
	return a.gallery
}

func (a *App) handleKeyMessage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		a.quitting = true

		return a, tea.Quit
	}

	if a.help.IsVisible() {
		return a, a.help.Update(msg)
	}

	typing := a.screen == GalleryScreen && a.gallery.IsSearchActive()
	if !typing {
		switch msg.String() {
		case "?":
			a.help.SetScreen(a.helpScreen())
			a.help.Toggle()

			return a, nil
		case "q":
			a.quitting = true

			return a, tea.Quit
		case "t":
			a.toggleTheme()

			return a, nil
		}
	}

	var cmd tea.Cmd

	if a.screen == DetailScreen && a.detail != nil {
		_, cmd = a.detail.Update(msg)
	} else {
		_, cmd = a.gallery.Update(msg)
	}

	return a, cmd
}

func (a *App) toggleTheme() {
	a.styles = a.styles.Toggle()
	changed := models.ThemeChangedMsg{Styles: a.styles}

	a.help.SetStyles(a.styles)

	a.gallery.Update(changed)

	if a.detail != nil {
		a.detail.Update(changed)
	}
}

func (a *App) resize() tea.Cmd {
	size := tea.WindowSizeMsg{Width: a.width, Height: a.contentHeight()}

	if a.detail != nil {
		a.detail.Update(size)
	}

	_, cmd := a.gallery.Update(size)

	return cmd
}

func (a *App) contentHeight() int {
	used := lipgloss.Height(a.renderHeader()) + lipgloss.Height(a.renderFooter())

	return max(a.height-used, 1)
}

func (a *App) renderHeader() string {
	subtitle := "Add to " + deeplink.AppName(a.opts.Gallery.Link.Referrer)
	if a.screen == DetailScreen && a.detail != nil {
		subtitle = a.detail.Library().Name
	}

	header := a.styles.Header.Render(Title) + " " + a.styles.Subtitle.Render(subtitle)

	return lipgloss.NewStyle().MaxWidth(a.width).Render(header)
}

func (a *App) helpScreen() string {
	if a.screen == DetailScreen {
		return models.HelpScreenDetail
	}

	return models.HelpScreenGallery
}

func (a *App) renderContent() string {
	if a.help.IsVisible() {
		return models.RenderModalOverlay(a.help.View(), a.width, a.contentHeight())
	}

	if a.screen == DetailScreen && a.detail != nil {
		return a.detail.View()
	}

	return a.gallery.View()
}

func (a *App) renderFooter() string {
	if a.screen == DetailScreen && a.detail != nil {
		return models.RenderFooter(a.styles, a.width, a.detail.FooterActions(), true)
	}

	searching := a.gallery.IsSearchActive()

	return models.RenderFooter(a.styles, a.width, a.gallery.FooterActions(), !searching)
}
