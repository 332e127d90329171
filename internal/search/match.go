// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// matchQuality rates how well a lower-cased term matches a lower-cased
// field, from 0 (no match) to 1 (exact substring).
func (x *Index) matchQuality(term, field string) float64 {
	if field == "" {
		return 0
	}

	if strings.Contains(field, term) {
		return 1
	}

	termLen := utf8.RuneCountInString(term)
	if termLen < x.opts.MinMatchCharLength {
		return 0
	}

	best := max(x.typoQuality(term, termLen, field), subsequenceQuality(term, termLen, field))
	if 1-best > x.opts.Threshold {
		return 0
	}

	return best
}

// typoQuality compares the term against every word of the field, allowing
// up to Threshold*len(term) edits.
func (x *Index) typoQuality(term string, termLen int, field string) float64 {
	tolerance := int(x.opts.Threshold * float64(termLen))
	if tolerance == 0 {
		return 0
	}

	termRunes := []rune(term)
	best := 0.0

	for _, word := range splitWords(field) {
		wordRunes := []rune(word)

		// Compare against the word's prefix too, so partially typed
		// words still match: "arow" against "arrows".
		candidates := [][]rune{wordRunes}
		if len(wordRunes) > termLen {
			candidates = append(candidates, wordRunes[:termLen])
		}

		for _, candidate := range candidates {
			distance, ok := boundedLevenshtein(termRunes, candidate, tolerance)
			if !ok {
				continue
			}

			best = max(best, 1-float64(distance)/float64(termLen))
		}
	}

	return best
}

// subsequenceQuality scores an in-order, possibly gapped match: the tighter
// the matched span, the better.
func subsequenceQuality(term string, termLen int, field string) float64 {
	matches := fuzzy.Find(term, []string{field})
	if len(matches) == 0 {
		return 0
	}

	indexes := matches[0].MatchedIndexes
	if len(indexes) == 0 {
		return 0
	}

	first, last := indexes[0], indexes[len(indexes)-1]
	_, lastSize := utf8.DecodeRuneInString(field[last:])
	span := utf8.RuneCountInString(field[first : last+lastSize])

	if span == 0 {
		return 0
	}

	return float64(termLen) / float64(span)
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// boundedLevenshtein returns the edit distance between a and b, or false
// when it exceeds tolerance.
func boundedLevenshtein(a, b []rune, tolerance int) (int, bool) {
	// Trim the common prefix and suffix; they never cost edits.
	for len(a) > 0 && len(b) > 0 && a[0] == b[0] {
		a, b = a[1:], b[1:]
	}

	for len(a) > 0 && len(b) > 0 && a[len(a)-1] == b[len(b)-1] {
		a, b = a[:len(a)-1], b[:len(b)-1]
	}

	if len(a) > len(b) {
		a, b = b, a
	}

	if len(b)-len(a) > tolerance {
		return 0, false
	}

	if len(a) == 0 {
		return len(b), true
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j
		rowMin := curr[0]

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
			rowMin = min(rowMin, curr[i])
		}

		if rowMin > tolerance {
			return 0, false
		}

		prev, curr = curr, prev
	}

	distance := prev[len(a)]
	if distance > tolerance {
		return 0, false
	}

	return distance, true
}
