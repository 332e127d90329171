// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package gallery_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/janderssonse/libgallery/internal/catalog"
	"github.com/janderssonse/libgallery/internal/gallery"
	"github.com/janderssonse/libgallery/internal/sorting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) //nolint:gochecknoglobals

func clock() time.Time { return now }

func daysAgo(days int) string {
	return now.AddDate(0, 0, -days).Format("2006-01-02")
}

func record(source, name string, days int) catalog.Record {
	return catalog.Record{
		Source:  source,
		Name:    name,
		Created: daysAgo(days),
		Updated: daysAgo(days),
	}
}

func viewNames(c *gallery.Controller) []string {
	var out []string
	for _, lib := range c.View().Libraries() {
		out = append(out, lib.Name)
	}

	return out
}

func TestDefaultOrderFromStreamedCatalog(t *testing.T) {
	t.Parallel()

	body := strings.Join([]string{
		`{"source":"misc/fresh.excalidrawlib","name":"Fresh","created":"` + daysAgo(1) + `","updated":"` + daysAgo(1) + `"}`,
		`{"source":"misc/settled.excalidrawlib","name":"Settled","created":"` + daysAgo(20) + `","updated":"` + daysAgo(20) + `"}`,
		`{"source":"misc/old.excalidrawlib","name":"Old","created":"` + daysAgo(40) + `","updated":"` + daysAgo(40) + `"}`,
	}, "\n")

	stats := catalog.Stats{
		"misc-fresh":   {Total: 5, Week: 5},
		"misc-settled": {Total: 50, Week: 50},
		"misc-old":     {Total: 1, Week: 1},
	}

	controller := gallery.NewController(stats, gallery.WithClock(clock))
	stream := catalog.NewStream(io.NopCloser(strings.NewReader(body)))

	require.True(t, controller.BeginLoad())

	records, done, err := stream.Next(context.Background(), 10)
	require.NoError(t, err)
	require.True(t, done)

	controller.Append(records)
	controller.EndLoad(done, nil)

	assert.Equal(t, []string{"Old", "Settled", "Fresh"}, viewNames(controller))
	assert.Equal(t, gallery.StatusEndOfData, controller.Status())
}

func TestLoadGating(t *testing.T) {
	t.Parallel()

	controller := gallery.NewController(nil, gallery.WithClock(clock))

	require.True(t, controller.BeginLoad())
	assert.False(t, controller.BeginLoad(), "second load while one is in flight")
	assert.Equal(t, gallery.StatusLoading, controller.Status())

	controller.EndLoad(false, nil)
	assert.Equal(t, gallery.StatusReady, controller.Status())
	require.True(t, controller.BeginLoad())

	controller.EndLoad(true, nil)
	assert.False(t, controller.BeginLoad(), "no loads after end of data")
	assert.True(t, controller.EndOfData())
}

func TestLoadErrorEndsLoading(t *testing.T) {
	t.Parallel()

	controller := gallery.NewController(nil, gallery.WithClock(clock))
	failure := errors.New("connection reset")

	require.True(t, controller.BeginLoad())
	controller.Append([]catalog.Record{record("a.excalidrawlib", "A", 30)})
	controller.EndLoad(false, failure)

	require.ErrorIs(t, controller.Err(), failure)
	assert.False(t, controller.BeginLoad())
	assert.Equal(t, []string{"A"}, viewNames(controller), "records before the failure stay")
	assert.False(t, controller.ShouldLoadMore(0))
}

func TestAppendReplacesSameID(t *testing.T) {
	t.Parallel()

	controller := gallery.NewController(nil, gallery.WithClock(clock), gallery.WithSort(sorting.KeyName))

	controller.Append([]catalog.Record{
		record("Misc/Arrows.excalidrawlib", "Arrows", 30),
		record("misc/boxes.excalidrawlib", "Boxes", 30),
	})
	controller.Append([]catalog.Record{record("misc/arrows.excalidrawlib", "Arrows v2", 30)})

	assert.Equal(t, 2, controller.Len())
	assert.Equal(t, []string{"Boxes", "Arrows v2"}, viewNames(controller))

	lib, ok := controller.Lookup("misc-arrows")
	require.True(t, ok)
	assert.Equal(t, "Arrows v2", lib.Name)

	_, err := controller.Find("misc-circles")
	require.ErrorIs(t, err, gallery.ErrUnknownLibrary)
}

func TestSearchFollowsAppends(t *testing.T) {
	t.Parallel()

	controller := gallery.NewController(nil, gallery.WithClock(clock))
	controller.SetQuery("arrow")

	assert.Empty(t, controller.View().Hits)
	assert.Equal(t, gallery.StatusNoResults, controller.Status())

	controller.Append([]catalog.Record{
		record("misc/boxes.excalidrawlib", "Boxes", 30),
		record("misc/arrows.excalidrawlib", "Arrows", 30),
	})

	assert.Equal(t, []string{"Arrows"}, viewNames(controller))
	assert.Equal(t, "arrow", controller.Query())

	controller.SetQuery("")
	assert.Len(t, controller.View().Hits, 2)
}

func TestSetSort(t *testing.T) {
	t.Parallel()

	controller := gallery.NewController(nil, gallery.WithClock(clock))
	controller.Append([]catalog.Record{
		record("a.excalidrawlib", "Alpha", 30),
		record("z.excalidrawlib", "Zeta", 30),
		record("m.excalidrawlib", "Mimi", 30),
	})

	require.NoError(t, controller.SetSort(sorting.KeyName))
	assert.Equal(t, sorting.KeyName, controller.SortKey())
	assert.Equal(t, []string{"Zeta", "Mimi", "Alpha"}, viewNames(controller))

	err := controller.SetSort("random")
	require.ErrorIs(t, err, sorting.ErrUnknownStrategy)
	assert.Equal(t, sorting.KeyName, controller.SortKey())
}

func TestSetStatsUpdatesCounters(t *testing.T) {
	t.Parallel()

	controller := gallery.NewController(nil, gallery.WithClock(clock), gallery.WithSort(sorting.KeyDownloadsTotal))
	controller.Append([]catalog.Record{
		record("a.excalidrawlib", "A", 30),
		record("b.excalidrawlib", "B", 30),
	})

	controller.SetStats(catalog.Stats{"b": {Total: 9, Week: 1}})

	assert.Equal(t, []string{"B", "A"}, viewNames(controller))

	lib, ok := controller.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, 9, lib.Downloads.Total)
}

func TestShouldLoadMore(t *testing.T) {
	t.Parallel()

	controller := gallery.NewController(nil, gallery.WithClock(clock))

	records := make([]catalog.Record, 0, 10)
	for _, name := range strings.Split("abcdefghij", "") {
		records = append(records, record(name+".excalidrawlib", name, 30))
	}

	controller.Append(records)

	assert.False(t, controller.ShouldLoadMore(0))
	assert.True(t, controller.ShouldLoadMore(10-gallery.LoadMoreThreshold))

	require.True(t, controller.BeginLoad())
	assert.False(t, controller.ShouldLoadMore(9), "already loading")
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "end of catalog", gallery.StatusEndOfData.String())
	assert.Equal(t, "no results", gallery.StatusNoResults.String())
}
