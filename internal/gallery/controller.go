// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

// Package gallery holds the browsing state behind the gallery screen: the
// loaded collection, the active ordering and the current query.
package gallery

import (
	"errors"
	"fmt"
	"time"

	"github.com/janderssonse/libgallery/internal/catalog"
	"github.com/janderssonse/libgallery/internal/logging"
	"github.com/janderssonse/libgallery/internal/search"
	"github.com/janderssonse/libgallery/internal/sorting"
	"github.com/sirupsen/logrus"
)

// ErrUnknownLibrary is returned when no loaded library has the requested id.
var ErrUnknownLibrary = errors.New("unknown library")

// Status summarises what the gallery screen should show around the cards.
type Status int

// Gallery states.
const (
	StatusReady Status = iota
	StatusLoading
	StatusEndOfData
	StatusNoResults
)

// String returns a short status label.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusEndOfData:
		return "end of catalog"
	case StatusNoResults:
		return "no results"
	case StatusReady:
		return "ready"
	default:
		return "unknown"
	}
}

// LoadMoreThreshold is how close to the last card the cursor must be
// before another page is requested.
const LoadMoreThreshold = 3

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the clock used by time-relative orderings.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithSort selects the initial ordering. Unknown keys fall back to the
// default ordering.
func WithSort(key string) Option {
	return func(c *Controller) {
		if _, err := sorting.Lookup(key); err == nil {
			c.sortKey = key
		}
	}
}

// WithSearchOptions overrides the search configuration.
func WithSearchOptions(opts search.Options) Option {
	return func(c *Controller) { c.index = search.NewIndex(opts) }
}

// Controller is owned by a single goroutine; it performs no locking.
type Controller struct {
	now     func() time.Time
	sortKey string
	query   string
	stats   catalog.Stats

	// arrival keeps ingestion order so every re-sort starts from the
	// same sequence.
	arrival   []catalog.Library
	positions map[string]int
	sorted    []catalog.Library

	index  *search.Index
	result search.Result

	loading   bool
	endOfData bool
	err       error
}

// NewController creates an empty gallery using stats for download counters.
func NewController(stats catalog.Stats, opts ...Option) *Controller {
	c := &Controller{
		now:       time.Now,
		sortKey:   sorting.KeyDefault,
		stats:     stats,
		positions: make(map[string]int),
		index:     search.NewIndex(search.DefaultOptions()),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.refresh()

	return c
}

// BeginLoad marks a page request as in flight. It refuses while another
// request is in flight or once the catalog is exhausted.
func (c *Controller) BeginLoad() bool {
	if c.loading || c.endOfData {
		return false
	}

	c.loading = true

	return true
}

// Loading reports whether a page request is in flight.
func (c *Controller) Loading() bool {
	return c.loading
}

// EndOfData reports whether no further pages will be requested.
func (c *Controller) EndOfData() bool {
	return c.endOfData
}

// Err returns the failure that ended loading, if any.
func (c *Controller) Err() error {
	return c.err
}

// Append merges a page of records. A record whose id is already present
// replaces the earlier one in place.
func (c *Controller) Append(records []catalog.Record) {
	if len(records) == 0 {
		return
	}

	for _, record := range records {
		library := catalog.Normalize(record, c.stats)

		if pos, ok := c.positions[library.ID]; ok {
			logging.Log.WithField("id", library.ID).Debug("Replacing duplicate library")
			c.arrival[pos] = library

			continue
		}

		c.positions[library.ID] = len(c.arrival)
		c.arrival = append(c.arrival, library)
	}

	c.refresh()
}

// EndLoad completes the in-flight request. Either done or a non-nil err
// ends loading for good; errors are not retried.
func (c *Controller) EndLoad(done bool, err error) {
	c.loading = false

	if err != nil {
		c.err = err
		c.endOfData = true

		logging.Log.WithError(err).WithField("loaded", len(c.arrival)).Error("Catalog loading stopped")

		return
	}

	if done {
		c.endOfData = true

		logging.Log.WithField("loaded", len(c.arrival)).Info("Catalog fully loaded")
	}
}

// SetStats replaces the download counters of every loaded library.
func (c *Controller) SetStats(stats catalog.Stats) {
	c.stats = stats

	for i, library := range c.arrival {
		c.arrival[i].Downloads = stats[library.ID]
	}

	c.refresh()
}

// SortKey returns the active ordering.
func (c *Controller) SortKey() string {
	return c.sortKey
}

// SetSort switches the ordering.
func (c *Controller) SetSort(key string) error {
	if _, err := sorting.Lookup(key); err != nil {
		return err
	}

	c.sortKey = key
	c.refresh()

	return nil
}

// Query returns the current search query.
func (c *Controller) Query() string {
	return c.query
}

// SetQuery re-runs the search with a new query.
func (c *Controller) SetQuery(query string) {
	c.query = query
	c.result = c.index.Search(query)
}

// View returns the libraries currently shown, in display order.
func (c *Controller) View() search.Result {
	return c.result
}

// Items returns the whole loaded collection in the active order.
func (c *Controller) Items() []catalog.Library {
	return c.sorted
}

// Len returns the number of loaded libraries.
func (c *Controller) Len() int {
	return len(c.arrival)
}

// Lookup finds a loaded library by id.
func (c *Controller) Lookup(id string) (catalog.Library, bool) {
	pos, ok := c.positions[id]
	if !ok {
		return catalog.Library{}, false
	}

	return c.arrival[pos], true
}

// Find is Lookup reporting a missing id as ErrUnknownLibrary.
func (c *Controller) Find(id string) (catalog.Library, error) {
	library, ok := c.Lookup(id)
	if !ok {
		return catalog.Library{}, fmt.Errorf("%w: %s", ErrUnknownLibrary, id)
	}

	return library, nil
}

// Status reports the state shown around the cards. An empty search result
// wins over a load in flight.
func (c *Controller) Status() Status {
	switch {
	case c.result.NoResults:
		return StatusNoResults
	case c.loading:
		return StatusLoading
	case c.endOfData:
		return StatusEndOfData
	default:
		return StatusReady
	}
}

// ShouldLoadMore reports whether the card at position cursor is close
// enough to the end of the view to request another page.
func (c *Controller) ShouldLoadMore(cursor int) bool {
	if c.loading || c.endOfData {
		return false
	}

	return cursor >= len(c.result.Hits)-LoadMoreThreshold
}

func (c *Controller) refresh() {
	sorted, err := sorting.Apply(c.sortKey, c.arrival, c.now())
	if err != nil {
		// sortKey is validated on every assignment.
		logging.Log.WithFields(logrus.Fields{"sort": c.sortKey}).WithError(err).Error("Sorting failed")

		sorted = append([]catalog.Library(nil), c.arrival...)
	}

	c.sorted = sorted
	c.index.Build(sorted)
	c.result = c.index.Search(c.query)
}
