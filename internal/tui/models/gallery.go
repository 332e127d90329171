// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/libgallery/internal/catalog"
	"github.com/janderssonse/libgallery/internal/deeplink"
	"github.com/janderssonse/libgallery/internal/gallery"
	"github.com/janderssonse/libgallery/internal/logging"
	"github.com/janderssonse/libgallery/internal/search"
	"github.com/janderssonse/libgallery/internal/sorting"
	"github.com/janderssonse/libgallery/internal/tui/styles"
)

// DefaultPageSize is the number of records requested per load.
const DefaultPageSize = 50

// galleryChrome is the rows used by the search bar and status line.
const galleryChrome = 2

// PageSource yields catalog records page by page.
type PageSource interface {
	Next(ctx context.Context, limit int) ([]catalog.Record, bool, error)
	Close() error
}

// Sources are the side effects the gallery depends on. Any of them may be
// nil.
type Sources struct {
	OpenCatalog func(ctx context.Context) (PageSource, error)
	FetchStats  func(ctx context.Context) (catalog.Stats, error)
	OpenURL     func(ctx context.Context, url string) error
}

// GalleryOptions configures the gallery screen.
type GalleryOptions struct {
	Sources  Sources
	PageSize int
	Debounce time.Duration
	Sort     string
	Link     deeplink.Options
	Clock    func() time.Time
}

// GalleryKeyMap defines the gallery key bindings.
type GalleryKeyMap struct {
	Search key.Binding
	Clear  key.Binding
	Up     key.Binding
	Down   key.Binding
	Sort   key.Binding
	Open   key.Binding
	Detail key.Binding
}

// DefaultGalleryKeyMap returns the default key bindings.
func DefaultGalleryKeyMap() GalleryKeyMap {
	return GalleryKeyMap{
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Clear:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Sort:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Open:   key.NewBinding(key.WithKeys(KeyEnter), key.WithHelp("enter", "add")),
		Detail: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "details")),
	}
}

// KeyEnter is the enter key name.
const KeyEnter = "enter"

// GalleryModel is the main browsing screen.
//
//nolint:containedctx // TUI models require context for proper cancellation propagation
type GalleryModel struct {
	ctx    context.Context
	styles *styles.Styles
	cards  *CardRenderer
	opts   GalleryOptions
	keyMap GalleryKeyMap

	controller *gallery.Controller
	lazy       *gallery.LazyLoader
	debouncer  *search.Debouncer
	send       func(tea.Msg)
	source     PageSource

	input     textinput.Model
	searching bool
	spinner   spinner.Model

	cursor int
	offset int
	width  int
	height int

	notice      string
	noticeIsErr bool
}

// NewGallery creates the gallery screen.
func NewGallery(ctx context.Context, styleConfig *styles.Styles, opts GalleryOptions) *GalleryModel {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}

	if opts.Debounce <= 0 {
		opts.Debounce = search.DefaultDebounce
	}

	controllerOpts := []gallery.Option{gallery.WithSort(opts.Sort)}
	if opts.Clock != nil {
		controllerOpts = append(controllerOpts, gallery.WithClock(opts.Clock))
	}

	input := textinput.New()
	input.Placeholder = "Search libraries"
	input.Prompt = "/ "
	input.CharLimit = 120

	model := &GalleryModel{
		ctx:        ctx,
		styles:     styleConfig,
		cards:      NewCardRenderer(styleConfig, opts.Link),
		opts:       opts,
		keyMap:     DefaultGalleryKeyMap(),
		controller: gallery.NewController(nil, controllerOpts...),
		lazy:       gallery.NewLazyLoader(gallery.DefaultLookahead),
		input:      input,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:      80,
		height:     24,
	}

	model.debouncer = search.NewDebouncer(opts.Debounce, func(query string) {
		if model.send != nil {
			model.send(SearchMsg{Query: query})
		}
	})

	return model
}

// SetSender sets how debounced searches are posted back to the program.
func (m *GalleryModel) SetSender(send func(tea.Msg)) {
	m.send = send
}

// Init starts loading the first page and the download counters.
func (m *GalleryModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadStats(), m.loadMore())
}

// Update handles messages for the gallery.
func (m *GalleryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-10, 10)
		m.ensureCursorVisible()

		return m, m.afterViewChange()

	case PageLoadedMsg:
		return m, m.handlePage(msg)

	case StatsLoadedMsg:
		if msg.Err != nil {
			logging.Log.WithError(msg.Err).Warn("Download statistics unavailable")

			return m, nil
		}

		m.controller.SetStats(msg.Stats)

		return m, nil

	case SearchMsg:
		// Drop results for a query that has since been edited.
		if msg.Query != m.input.Value() {
			return m, nil
		}

		m.applyQuery(msg.Query)

		return m, m.afterViewChange()

	case LinkOpenedMsg:
		if msg.Err != nil {
			logging.Log.WithError(msg.Err).WithField("url", msg.URL).Error("Failed to open link")
			m.notice, m.noticeIsErr = "Could not open browser: "+msg.URL, true
		} else {
			m.notice, m.noticeIsErr = "Opened "+deeplink.AppName(m.opts.Link.Referrer), false
		}

		return m, nil

	case ThemeChangedMsg:
		m.styles = msg.Styles
		m.cards = NewCardRenderer(msg.Styles, m.opts.Link)

		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.KeyMsg:
		return m, m.handleKeyMessage(msg)
	}

	if m.searching {
		var cmd tea.Cmd

		m.input, cmd = m.input.Update(msg)

		return m, cmd
	}

	return m, nil
}

// View renders the search bar, the visible cards and the status line.
func (m *GalleryModel) View() string {
	parts := []string{m.renderSearchBar()}

	hits := m.controller.View().Hits
	first, last := m.visibleRange()

	cards := make([]string, 0, last-first+1)
	for i := first; i <= last && i < len(hits); i++ {
		cards = append(cards, m.cards.Render(hits[i], m.width, i == m.cursor, m.lazy.Revealed(hits[i].ID)))
	}

	if len(cards) > 0 {
		parts = append(parts, lipgloss.JoinVertical(lipgloss.Left, cards...))
	}

	parts = append(parts, m.renderStatus())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// FooterActions lists the keys shown in the footer.
func (m *GalleryModel) FooterActions() []FooterAction {
	if m.searching {
		return []FooterAction{{Key: KeyEnter, Action: "Done"}, {Key: "esc", Action: "Clear"}}
	}

	bindings := []key.Binding{m.keyMap.Search, m.keyMap.Down, m.keyMap.Sort, m.keyMap.Open, m.keyMap.Detail}

	actions := make([]FooterAction, 0, len(bindings))
	for _, binding := range bindings {
		actions = append(actions, FooterAction{Key: binding.Help().Key, Action: binding.Help().Desc})
	}

	return actions
}

// IsSearchActive reports whether keystrokes go to the search field.
func (m *GalleryModel) IsSearchActive() bool {
	return m.searching
}

// Controller exposes the browsing state.
func (m *GalleryModel) Controller() *gallery.Controller {
	return m.controller
}

// Cursor returns the position of the selected card.
func (m *GalleryModel) Cursor() int {
	return m.cursor
}

// Notice returns the last transient message.
func (m *GalleryModel) Notice() string {
	return m.notice
}

// Selected returns the library under the cursor.
func (m *GalleryModel) Selected() (catalog.Library, bool) {
	hits := m.controller.View().Hits
	if m.cursor < 0 || m.cursor >= len(hits) {
		return catalog.Library{}, false
	}

	return hits[m.cursor].Library, true
}

// Close stops the pending search and releases the catalog stream.
func (m *GalleryModel) Close() {
	m.debouncer.Cancel()

	if m.source != nil {
		if err := m.source.Close(); err != nil {
			logging.Log.WithError(err).Debug("Closing catalog stream")
		}

		m.source = nil
	}
}

func (m *GalleryModel) handleKeyMessage(msg tea.KeyMsg) tea.Cmd {
	if m.searching {
		return m.handleSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Search):
		m.searching = true

		return tea.Batch(m.input.Focus(), func() tea.Msg { return SearchActivatedMsg{Active: true} })

	case key.Matches(msg, m.keyMap.Clear):
		if m.input.Value() == "" {
			return nil
		}

		m.input.SetValue("")
		m.applyQuery("")

		return m.afterViewChange()

	case key.Matches(msg, m.keyMap.Down):
		m.moveCursor(1)

		return m.afterViewChange()

	case key.Matches(msg, m.keyMap.Up):
		m.moveCursor(-1)

		return m.afterViewChange()

	case key.Matches(msg, m.keyMap.Sort):
		if err := m.controller.SetSort(sorting.Next(m.controller.SortKey())); err != nil {
			logging.Log.WithError(err).Error("Changing sort failed")
		}

		m.cursor, m.offset = 0, 0

		return m.afterViewChange()

	case key.Matches(msg, m.keyMap.Open):
		return m.openSelected()

	case key.Matches(msg, m.keyMap.Detail):
		library, ok := m.Selected()
		if !ok {
			return nil
		}

		return func() tea.Msg { return ShowDetailMsg{Library: library} }
	}

	return nil
}

func (m *GalleryModel) handleSearchInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.debouncer.Cancel()
		m.searching = false
		m.input.Blur()
		m.input.SetValue("")
		m.applyQuery("")

		return tea.Batch(m.afterViewChange(), func() tea.Msg { return SearchActivatedMsg{Active: false} })

	case KeyEnter:
		m.debouncer.Cancel()
		m.searching = false
		m.input.Blur()
		m.applyQuery(m.input.Value())

		return tea.Batch(m.afterViewChange(), func() tea.Msg { return SearchActivatedMsg{Active: false} })
	}

	before := m.input.Value()

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	if m.input.Value() != before {
		m.debouncer.Update(m.input.Value())
	}

	return cmd
}

func (m *GalleryModel) applyQuery(query string) {
	m.controller.SetQuery(query)
	m.cursor, m.offset = 0, 0
}

func (m *GalleryModel) moveCursor(delta int) {
	total := len(m.controller.View().Hits)
	if total == 0 {
		m.cursor = 0

		return
	}

	m.cursor = min(max(m.cursor+delta, 0), total-1)
	m.ensureCursorVisible()
}

func (m *GalleryModel) ensureCursorVisible() {
	visible := m.visibleCount()

	if m.cursor < m.offset {
		m.offset = m.cursor
	}

	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m *GalleryModel) visibleCount() int {
	return max((m.height-galleryChrome)/CardHeight, 1)
}

func (m *GalleryModel) visibleRange() (int, int) {
	return m.offset, m.offset + m.visibleCount() - 1
}

// afterViewChange reveals cards that came into view and requests another
// page when the cursor nears the end of the loaded data.
func (m *GalleryModel) afterViewChange() tea.Cmd {
	hits := m.controller.View().Hits

	ids := make([]string, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.ID)
	}

	first, last := m.visibleRange()
	m.lazy.Observe(ids, first, last)

	if m.controller.ShouldLoadMore(max(m.cursor, last)) {
		return m.loadMore()
	}

	return nil
}

func (m *GalleryModel) loadMore() tea.Cmd {
	if m.opts.Sources.OpenCatalog == nil && m.source == nil {
		return nil
	}

	if !m.controller.BeginLoad() {
		return nil
	}

	ctx, source, open, limit := m.ctx, m.source, m.opts.Sources.OpenCatalog, m.opts.PageSize

	return func() tea.Msg {
		if source == nil {
			opened, err := open(ctx)
			if err != nil {
				return PageLoadedMsg{Err: err}
			}

			source = opened
		}

		records, done, err := source.Next(ctx, limit)

		return PageLoadedMsg{Source: source, Records: records, Done: done, Err: err}
	}
}

func (m *GalleryModel) handlePage(msg PageLoadedMsg) tea.Cmd {
	if msg.Source != nil {
		m.source = msg.Source
	}

	m.controller.Append(msg.Records)
	m.controller.EndLoad(msg.Done, msg.Err)

	if msg.Err != nil {
		m.notice, m.noticeIsErr = "Catalog loading stopped: "+msg.Err.Error(), true
	}

	if m.controller.EndOfData() && m.source != nil {
		if err := m.source.Close(); err != nil {
			logging.Log.WithError(err).Debug("Closing catalog stream")
		}

		m.source = nil
	}

	return m.afterViewChange()
}

func (m *GalleryModel) loadStats() tea.Cmd {
	fetch := m.opts.Sources.FetchStats
	if fetch == nil {
		return nil
	}

	ctx := m.ctx

	return func() tea.Msg {
		stats, err := fetch(ctx)

		return StatsLoadedMsg{Stats: stats, Err: err}
	}
}

func (m *GalleryModel) openSelected() tea.Cmd {
	library, ok := m.Selected()
	if !ok || m.opts.Sources.OpenURL == nil {
		return nil
	}

	target := deeplink.AddLibraryURL(m.opts.Link, library)
	ctx, open := m.ctx, m.opts.Sources.OpenURL

	return func() tea.Msg {
		return LinkOpenedMsg{URL: target, Err: open(ctx, target)}
	}
}

func (m *GalleryModel) renderSearchBar() string {
	strategy, err := sorting.Lookup(m.controller.SortKey())
	label := m.controller.SortKey()

	if err == nil {
		label = strategy.Label
	}

	count := FormatCount(len(m.controller.View().Hits)) + " libraries"
	if _, pending := m.debouncer.Pending(); pending {
		count = "searching…"
	}

	info := m.styles.MutedText.Render(fmt.Sprintf("%s · sort: %s", count, label))

	bar := m.styles.MutedText.Render("press / to search") + "  " + info
	if m.searching || m.input.Value() != "" {
		bar = m.input.View() + "  " + info
	}

	return lipgloss.NewStyle().MaxWidth(m.width).Render(bar)
}

func (m *GalleryModel) renderStatus() string {
	var parts []string

	if m.controller.Loading() {
		parts = append(parts, m.spinner.View()+" Loading libraries…")
	}

	switch m.controller.Status() {
	case gallery.StatusNoResults:
		parts = append(parts, m.styles.WarningText.Render("No libraries found"))
	case gallery.StatusEndOfData:
		parts = append(parts, m.styles.MutedText.Render("· end of catalog ·"))
	case gallery.StatusLoading, gallery.StatusReady:
	}

	if m.notice != "" {
		style := m.styles.SuccessText
		if m.noticeIsErr {
			style = m.styles.ErrorText
		}

		parts = append(parts, style.Render(m.notice))
	}

	return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(parts, "  "))
}
