// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/libgallery/internal/search"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestFormatCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "1,234,567", FormatCount(1234567))
}

func TestJoinItemNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "left arrow, right arrow", JoinItemNames([]string{"left arrow", "right arrow"}))

	names := make([]string, 0, MaxItemNames+5)
	for i := range MaxItemNames + 5 {
		names = append(names, fmt.Sprint(i))
	}

	joined := JoinItemNames(names)
	assert.True(t, strings.HasSuffix(joined, ", 299..."))
	assert.NotContains(t, joined, "300")
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Arrows", Truncate("Arrows", 10))
	assert.Equal(t, "Arr…", Truncate("Arrows", 4))
	assert.Equal(t, "", Truncate("Arrows", 0))

	wide := Truncate("箭头箭头箭头", 7)
	assert.LessOrEqual(t, runewidth.StringWidth(wide), 7)
	assert.True(t, strings.HasSuffix(wide, "…"))
}

func TestRenderMarked(t *testing.T) {
	t.Parallel()

	plain := lipgloss.NewStyle()
	mark := lipgloss.NewStyle()

	// Unstyled rendering leaves the text unchanged.
	assert.Equal(t, "Arrows", RenderMarked("Arrows", []search.Span{{Start: 0, End: 5}}, 20, plain, mark))
	assert.Equal(t, "Arrow…", RenderMarked("Arrows and more", []search.Span{{Start: 0, End: 5}, {Start: 11, End: 15}}, 6, plain, mark))
}

func TestItemNamesHighlight(t *testing.T) {
	t.Parallel()

	marker := search.Marker{Open: "[", Close: "]"}
	names := []string{"left arrow", "box", "right arrow"}

	highlights := make([]search.Highlight, 0, len(names))
	for _, name := range names {
		highlights = append(highlights, marker.Mark(name, []string{"arrow"}))
	}

	joined, spans := itemNamesHighlight(names, highlights)
	assert.Equal(t, "left arrow, box, right arrow", joined)
	assert.Equal(t, []search.Span{{Start: 5, End: 10}, {Start: 23, End: 28}}, spans)

	joined, spans = itemNamesHighlight(names, nil)
	assert.Equal(t, "left arrow, box, right arrow", joined)
	assert.Nil(t, spans)
}
