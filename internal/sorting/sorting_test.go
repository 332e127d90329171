// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package sorting_test

import (
	"testing"
	"time"

	"github.com/janderssonse/libgallery/internal/catalog"
	"github.com/janderssonse/libgallery/internal/sorting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) //nolint:gochecknoglobals

func daysAgo(days int) string {
	return now.AddDate(0, 0, -days).Format("2006-01-02")
}

func lib(name string, mutate ...func(*catalog.Library)) catalog.Library {
	l := catalog.Library{Record: catalog.Record{Name: name, Created: daysAgo(100), Updated: daysAgo(100)}, ID: name}
	for _, m := range mutate {
		m(&l)
	}

	return l
}

func names(items []catalog.Library) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Name)
	}

	return out
}

func TestSortByNameDescending(t *testing.T) {
	t.Parallel()

	items := []catalog.Library{lib("Alpha"), lib("Zeta"), lib("Mimi")}

	sorted, err := sorting.Apply(sorting.KeyName, items, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zeta", "Mimi", "Alpha"}, names(sorted))

	// The input is left untouched.
	assert.Equal(t, []string{"Alpha", "Zeta", "Mimi"}, names(items))
}

func TestSortByNameUsesCollation(t *testing.T) {
	t.Parallel()

	items := []catalog.Library{lib("apple"), lib("Banana"), lib("Éclair")}

	sorted, err := sorting.Apply(sorting.KeyName, items, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"Éclair", "Banana", "apple"}, names(sorted))
}

func TestSortByAuthorDescending(t *testing.T) {
	t.Parallel()

	withAuthor := func(author string) func(*catalog.Library) {
		return func(l *catalog.Library) { l.Authors = []catalog.Author{{Name: author}} }
	}

	items := []catalog.Library{
		lib("one", withAuthor("bob")),
		lib("two", withAuthor("zed")),
		lib("three"),
		lib("four", withAuthor("ada")),
	}

	sorted, err := sorting.Apply(sorting.KeyAuthor, items, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "one", "four", "three"}, names(sorted))
}

func TestSortByDates(t *testing.T) {
	t.Parallel()

	items := []catalog.Library{
		lib("old", func(l *catalog.Library) { l.Created = daysAgo(30); l.Updated = daysAgo(1) }),
		lib("newest", func(l *catalog.Library) { l.Created = daysAgo(2); l.Updated = daysAgo(2) }),
		lib("undated", func(l *catalog.Library) { l.Created = ""; l.Updated = "" }),
		lib("middle", func(l *catalog.Library) { l.Created = daysAgo(10); l.Updated = daysAgo(10) }),
	}

	sorted, err := sorting.Apply(sorting.KeyNew, items, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "middle", "old", "undated"}, names(sorted))

	sorted, err = sorting.Apply(sorting.KeyUpdated, items, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"old", "newest", "middle", "undated"}, names(sorted))
}

func TestSortByDownloads(t *testing.T) {
	t.Parallel()

	downloads := func(total, week int) func(*catalog.Library) {
		return func(l *catalog.Library) { l.Downloads = catalog.Downloads{Total: total, Week: week} }
	}

	items := []catalog.Library{
		lib("a", downloads(10, 3)),
		lib("b", downloads(50, 1)),
		lib("c", downloads(20, 9)),
		lib("d", downloads(50, 3)),
	}

	sorted, err := sorting.Apply(sorting.KeyDownloadsTotal, items, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d", "c", "a"}, names(sorted), "ties keep input order")

	sorted, err = sorting.Apply(sorting.KeyDownloadsWeek, items, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "d", "b"}, names(sorted))
}

func TestSortDefaultBlendsPopularityAndRecency(t *testing.T) {
	t.Parallel()

	items := []catalog.Library{
		lib("fresh", func(l *catalog.Library) { l.Created = daysAgo(1); l.Downloads.Week = 5 }),
		lib("settled", func(l *catalog.Library) { l.Created = daysAgo(20); l.Downloads.Week = 50 }),
		lib("old", func(l *catalog.Library) { l.Created = daysAgo(40); l.Downloads.Week = 1 }),
	}

	sorted, err := sorting.Apply(sorting.KeyDefault, items, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"old", "settled", "fresh"}, names(sorted))
}

func TestSortDefaultRecentBlockIsOldestFirst(t *testing.T) {
	t.Parallel()

	items := []catalog.Library{
		lib("yesterday", func(l *catalog.Library) { l.Created = daysAgo(1) }),
		lib("last-week", func(l *catalog.Library) { l.Created = daysAgo(7) }),
		lib("boundary", func(l *catalog.Library) { l.Created = now.Add(-sorting.RecentWindow).Format(time.RFC3339) }),
	}

	sorted, err := sorting.Apply(sorting.KeyDefault, items, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"boundary", "last-week", "yesterday"}, names(sorted))
}

func TestSortDefaultAllRecent(t *testing.T) {
	t.Parallel()

	items := []catalog.Library{
		lib("b", func(l *catalog.Library) { l.Created = daysAgo(2) }),
		lib("a", func(l *catalog.Library) { l.Created = daysAgo(3) }),
	}

	sorted, err := sorting.Apply(sorting.KeyDefault, items, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names(sorted))
}

func TestLookup(t *testing.T) {
	t.Parallel()

	for _, key := range sorting.Keys() {
		strategy, err := sorting.Lookup(key)
		require.NoError(t, err)
		assert.Equal(t, key, strategy.Key)
		assert.NotEmpty(t, strategy.Label)
	}

	_, err := sorting.Lookup("popularity")
	require.ErrorIs(t, err, sorting.ErrUnknownStrategy)

	_, err = sorting.Apply("popularity", nil, now)
	require.ErrorIs(t, err, sorting.ErrUnknownStrategy)
}

func TestNextWrapsAround(t *testing.T) {
	t.Parallel()

	keys := sorting.Keys()
	assert.Equal(t, keys[1], sorting.Next(keys[0]))
	assert.Equal(t, keys[0], sorting.Next(keys[len(keys)-1]))
	assert.Equal(t, sorting.KeyDefault, sorting.Next("bogus"))
	assert.Len(t, sorting.All(), len(keys))
}
