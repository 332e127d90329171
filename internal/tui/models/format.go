// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/libgallery/internal/search"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MaxItemNames is the number of item names listed before the rest is
// elided.
const MaxItemNames = 300

const ellipsis = "…"

var printer = message.NewPrinter(language.English) //nolint:gochecknoglobals

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// JoinItemNames lists at most MaxItemNames names.
func JoinItemNames(names []string) string {
	if len(names) > MaxItemNames {
		return strings.Join(names[:MaxItemNames], ", ") + "..."
	}

	return strings.Join(names, ", ")
}

// Truncate shortens text to at most width terminal cells.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if runewidth.StringWidth(text) <= width {
		return text
	}

	return runewidth.Truncate(text, width-1, "") + ellipsis
}

// RenderMarked truncates text to width cells and renders the spans with
// mark and the rest with base.
func RenderMarked(text string, spans []search.Span, width int, base, mark lipgloss.Style) string {
	if width <= 0 {
		return ""
	}

	kept, tail := text, ""
	if runewidth.StringWidth(text) > width {
		kept, tail = runewidth.Truncate(text, width-1, ""), ellipsis
	}

	var b strings.Builder

	last := 0

	for _, span := range spans {
		if span.Start >= len(kept) {
			break
		}

		end := min(span.End, len(kept))
		if span.Start > last {
			b.WriteString(base.Render(kept[last:span.Start]))
		}

		b.WriteString(mark.Render(kept[span.Start:end]))

		last = end
	}

	if last < len(kept) {
		b.WriteString(base.Render(kept[last:]))
	}

	if tail != "" {
		b.WriteString(base.Render(tail))
	}

	return b.String()
}

// itemNamesHighlight joins highlighted item names, shifting every span into
// the joined text.
func itemNamesHighlight(names []string, highlights []search.Highlight) (string, []search.Span) {
	if len(highlights) == 0 {
		return JoinItemNames(names), nil
	}

	var (
		b     strings.Builder
		spans []search.Span
	)

	for i, h := range highlights {
		if i == MaxItemNames {
			b.WriteString("...")

			break
		}

		if i > 0 {
			b.WriteString(", ")
		}

		offset := b.Len()
		for _, span := range h.Spans {
			spans = append(spans, search.Span{Start: span.Start + offset, End: span.End + offset})
		}

		b.WriteString(h.Original)
	}

	return b.String(), spans
}
