// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/libgallery/internal/catalog"
	"github.com/janderssonse/libgallery/internal/deeplink"
	"github.com/janderssonse/libgallery/internal/search"
	"github.com/janderssonse/libgallery/internal/tui/styles"
)

// CardHeight is the number of terminal rows a rendered card occupies,
// borders included.
const CardHeight = 8

const cardChrome = 4 // border and padding columns

// CardRenderer draws library cards.
type CardRenderer struct {
	styles  *styles.Styles
	link    deeplink.Options
	appName string
}

// NewCardRenderer creates a renderer for the given link settings.
func NewCardRenderer(s *styles.Styles, link deeplink.Options) *CardRenderer {
	return &CardRenderer{
		styles:  s,
		link:    link,
		appName: deeplink.AppName(link.Referrer),
	}
}

// Render draws hit as a card width columns wide. The preview URL is only
// shown once revealed.
func (r *CardRenderer) Render(hit search.Hit, width int, selected, revealed bool) string {
	inner := max(width-cardChrome, 1)
	s := r.styles

	lines := []string{
		r.title(hit, inner),
		r.marked(hit.Description, hit.DescriptionHighlight, inner, s.MutedText),
		r.items(hit, inner),
		Truncate(r.meta(hit.Library), inner),
		r.preview(hit.Library, inner, revealed),
		s.Button.Render(Truncate("Add to "+r.appName, inner-2)),
	}

	style := s.Card
	if selected {
		style = s.Selected
	}

	return style.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

func (r *CardRenderer) title(hit search.Hit, width int) string {
	title := r.marked(hit.Name, hit.NameHighlight, width, r.styles.Title)

	authors := make([]string, 0, len(hit.Authors))
	for _, author := range hit.Authors {
		authors = append(authors, "@"+author.Name)
	}

	byline := strings.Join(authors, " ")
	room := width - lipgloss.Width(title) - 1

	if byline == "" || room < 4 {
		return title
	}

	return title + " " + r.styles.Subtitle.Render(Truncate(byline, room))
}

func (r *CardRenderer) marked(text string, highlight *search.Highlight, width int, base lipgloss.Style) string {
	var spans []search.Span
	if highlight != nil {
		spans = highlight.Spans
	}

	return RenderMarked(text, spans, width, base, r.styles.Mark)
}

func (r *CardRenderer) items(hit search.Hit, width int) string {
	if len(hit.ItemNames) == 0 {
		return ""
	}

	const label = "Items: "

	text, spans := itemNamesHighlight(hit.ItemNames, hit.ItemNamesHighlight)

	return r.styles.PrimaryText.Render(label) +
		RenderMarked(text, spans, width-len(label), lipgloss.NewStyle(), r.styles.Mark)
}

func (r *CardRenderer) meta(lib catalog.Library) string {
	parts := []string{"Created " + catalog.FormatDate(lib.Created)}
	if lib.Updated != lib.Created {
		parts = append(parts, "Updated "+catalog.FormatDate(lib.Updated))
	}

	parts = append(parts, fmt.Sprintf("Downloads %s (this week %s)",
		FormatCount(lib.Downloads.Total), FormatCount(lib.Downloads.Week)))

	return strings.Join(parts, " · ")
}

func (r *CardRenderer) preview(lib catalog.Library, width int, revealed bool) string {
	if !revealed || lib.Preview == "" {
		return r.styles.MutedText.Render(Truncate("Preview: …", width))
	}

	return r.styles.MutedText.Render(Truncate("Preview: "+deeplink.PreviewURL(r.link.Site, lib), width))
}
