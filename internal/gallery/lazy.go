// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package gallery

// DefaultLookahead is the number of cards past either edge of the visible
// window that are revealed ahead of time.
const DefaultLookahead = 3

// LazyLoader decides when a card's preview is resolved. A card is revealed
// once it comes within the lookahead margin of the visible window and
// stays revealed afterwards.
type LazyLoader struct {
	lookahead int
	revealed  map[string]struct{}
}

// NewLazyLoader creates a loader with the given margin in cards.
func NewLazyLoader(lookahead int) *LazyLoader {
	if lookahead < 0 {
		lookahead = 0
	}

	return &LazyLoader{
		lookahead: lookahead,
		revealed:  make(map[string]struct{}),
	}
}

// Observe records that cards first..last of ids are visible and returns
// the ids revealed by this call.
func (l *LazyLoader) Observe(ids []string, first, last int) []string {
	if len(ids) == 0 || last < first {
		return nil
	}

	start := max(first-l.lookahead, 0)
	end := min(last+l.lookahead, len(ids)-1)

	var fresh []string

	for i := start; i <= end; i++ {
		if _, ok := l.revealed[ids[i]]; ok {
			continue
		}

		l.revealed[ids[i]] = struct{}{}
		fresh = append(fresh, ids[i])
	}

	return fresh
}

// Revealed reports whether the card with id has been revealed.
func (l *LazyLoader) Revealed(id string) bool {
	_, ok := l.revealed[id]

	return ok
}

// Count returns the number of revealed cards.
func (l *LazyLoader) Count() int {
	return len(l.revealed)
}
