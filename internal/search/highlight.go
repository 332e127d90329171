// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package search

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Span is a byte range [Start, End) of the original text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Highlight keeps the original text next to a copy with every match wrapped
// in the marker pair.
type Highlight struct {
	Original string `json:"original"`
	Marked   string `json:"marked"`
	Spans    []Span `json:"spans,omitempty"`
}

// Matched reports whether anything was marked.
func (h Highlight) Matched() bool {
	return len(h.Spans) > 0
}

// Marker wraps matched substrings.
type Marker struct {
	Open  string
	Close string
}

// Mark wraps every case-insensitive occurrence of every term in text.
// Overlapping and adjacent occurrences are merged into one span.
func (m Marker) Mark(text string, terms []string) Highlight {
	spans := MatchSpans(text, terms)
	if len(spans) == 0 {
		return Highlight{Original: text, Marked: text}
	}

	var b strings.Builder

	b.Grow(len(text) + len(spans)*(len(m.Open)+len(m.Close)))

	last := 0
	for _, span := range spans {
		b.WriteString(text[last:span.Start])
		b.WriteString(m.Open)
		b.WriteString(text[span.Start:span.End])
		b.WriteString(m.Close)

		last = span.End
	}

	b.WriteString(text[last:])

	return Highlight{Original: text, Marked: b.String(), Spans: spans}
}

// MatchSpans returns the sorted, merged byte spans of every case-insensitive
// occurrence of the terms in text.
func MatchSpans(text string, terms []string) []Span {
	var spans []Span

	for _, term := range terms {
		spans = append(spans, findFold(text, term)...)
	}

	if len(spans) == 0 {
		return nil
	}

	slices.SortFunc(spans, func(a, b Span) int {
		return cmp.Or(cmp.Compare(a.Start, b.Start), cmp.Compare(a.End, b.End))
	})

	merged := spans[:1]
	for _, span := range spans[1:] {
		tail := &merged[len(merged)-1]
		if span.Start <= tail.End {
			tail.End = max(tail.End, span.End)

			continue
		}

		merged = append(merged, span)
	}

	return merged
}

// findFold finds non-overlapping case-insensitive occurrences of term.
func findFold(text, term string) []Span {
	termRunes := []rune(term)
	if len(termRunes) == 0 {
		return nil
	}

	var spans []Span

	for start := 0; start < len(text); {
		if end, ok := matchFoldAt(text, start, termRunes); ok {
			spans = append(spans, Span{Start: start, End: end})
			start = end

			continue
		}

		_, size := utf8.DecodeRuneInString(text[start:])
		start += size
	}

	return spans
}

func matchFoldAt(text string, start int, term []rune) (int, bool) {
	pos := start

	for _, want := range term {
		if pos >= len(text) {
			return 0, false
		}

		got, size := utf8.DecodeRuneInString(text[pos:])
		if !equalFold(got, want) {
			return 0, false
		}

		pos += size
	}

	return pos, true
}

func equalFold(a, b rune) bool {
	if a == b {
		return true
	}

	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}

	return false
}
