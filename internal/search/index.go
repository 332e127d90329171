// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

// Package search implements typo-tolerant, weighted multi-term search over
// the library collection, with optional match highlighting.
package search

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/janderssonse/libgallery/internal/catalog"
)

// Weights are the relative importance of each searchable field.
type Weights struct {
	Name        float64
	ItemNames   float64
	Description float64
}

// Options configures matching and highlighting.
type Options struct {
	Weights Weights
	// Threshold is the largest accepted mismatch, 0 (exact) to 1 (anything).
	Threshold float64
	// MinMatchCharLength is the shortest term that may match approximately.
	MinMatchCharLength int
	// MinHighlightLength is the shortest query that gets highlighted.
	MinHighlightLength int
	MarkOpen           string
	MarkClose          string
}

// DefaultOptions returns the gallery's search configuration.
func DefaultOptions() Options {
	return Options{
		Weights: Weights{
			Name:        0.8,
			ItemNames:   0.3,
			Description: 0.1,
		},
		Threshold:          0.4,
		MinMatchCharLength: 2,
		MinHighlightLength: 2,
		MarkOpen:           "<mark>",
		MarkClose:          "</mark>",
	}
}

// Hit is a library in a result set with optional highlights. Highlight
// fields are nil when nothing in them was marked.
type Hit struct {
	catalog.Library

	Score                float64     `json:"score,omitempty"`
	NameHighlight        *Highlight  `json:"nameHighlight,omitempty"`
	DescriptionHighlight *Highlight  `json:"descriptionHighlight,omitempty"`
	ItemNamesHighlight   []Highlight `json:"itemNamesHighlight,omitempty"`
}

// Result is the outcome of one query.
type Result struct {
	Query string `json:"query"`
	Hits  []Hit  `json:"hits"`
	// NoResults is set when a query long enough to highlight found nothing.
	NoResults bool `json:"noResults"`
}

// Libraries returns the hits without annotations.
func (r Result) Libraries() []catalog.Library {
	out := make([]catalog.Library, 0, len(r.Hits))
	for _, hit := range r.Hits {
		out = append(out, hit.Library)
	}

	return out
}

type entry struct {
	library     catalog.Library
	name        string
	description string
	itemNames   []string
}

// Index is an in-memory search index over a snapshot of the collection.
// It must be rebuilt whenever the collection changes.
type Index struct {
	opts    Options
	entries []entry
}

// NewIndex creates an empty index.
func NewIndex(opts Options) *Index {
	return &Index{opts: opts}
}

// Build replaces the indexed snapshot.
func (x *Index) Build(items []catalog.Library) {
	entries := make([]entry, 0, len(items))

	for _, item := range items {
		itemNames := make([]string, 0, len(item.ItemNames))
		for _, itemName := range item.ItemNames {
			itemNames = append(itemNames, strings.ToLower(itemName))
		}

		entries = append(entries, entry{
			library:     item,
			name:        strings.ToLower(item.Name),
			description: strings.ToLower(item.Description),
			itemNames:   itemNames,
		})
	}

	x.entries = entries
}

// Len returns the number of indexed libraries.
func (x *Index) Len() int {
	return len(x.entries)
}

// Terms splits a query into lower-cased search terms.
func Terms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Search runs query against the index. Every term must match at least one
// field; hits are ranked best first, ties keep collection order.
func (x *Index) Search(query string) Result {
	query = strings.TrimSpace(query)
	result := Result{Query: query}

	terms := Terms(query)
	if len(terms) == 0 {
		result.Hits = make([]Hit, 0, len(x.entries))
		for _, e := range x.entries {
			result.Hits = append(result.Hits, Hit{Library: e.library})
		}

		return result
	}

	hits := make([]Hit, 0)

	for _, e := range x.entries {
		score, ok := x.score(e, terms)
		if !ok {
			continue
		}

		hits = append(hits, Hit{Library: e.library, Score: score})
	}

	slices.SortStableFunc(hits, func(a, b Hit) int {
		return cmp.Compare(b.Score, a.Score)
	})

	highlight := utf8.RuneCountInString(query) >= x.opts.MinHighlightLength
	if highlight {
		for i := range hits {
			x.annotate(&hits[i], terms)
		}
	}

	result.Hits = hits
	result.NoResults = highlight && len(hits) == 0

	return result
}

func (x *Index) score(e entry, terms []string) (float64, bool) {
	total := 0.0

	for _, term := range terms {
		best := x.opts.Weights.Name * x.matchQuality(term, e.name)
		best = max(best, x.opts.Weights.Description*x.matchQuality(term, e.description))

		for _, itemName := range e.itemNames {
			best = max(best, x.opts.Weights.ItemNames*x.matchQuality(term, itemName))
		}

		if best == 0 {
			return 0, false
		}

		total += best
	}

	return total, true
}

func (x *Index) annotate(hit *Hit, terms []string) {
	marker := Marker{Open: x.opts.MarkOpen, Close: x.opts.MarkClose}

	if h := marker.Mark(hit.Name, terms); h.Matched() {
		hit.NameHighlight = &h
	}

	if h := marker.Mark(hit.Description, terms); h.Matched() {
		hit.DescriptionHighlight = &h
	}

	items := make([]Highlight, 0, len(hit.ItemNames))
	matched := false

	for _, itemName := range hit.ItemNames {
		h := marker.Mark(itemName, terms)
		matched = matched || h.Matched()
		items = append(items, h)
	}

	if matched {
		hit.ItemNamesHighlight = items
	}
}
