// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

// Package sorting provides the named orderings offered by the gallery.
package sorting

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/janderssonse/libgallery/internal/catalog"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Strategy keys.
const (
	KeyDefault        = "default"
	KeyNew            = "new"
	KeyUpdated        = "updated"
	KeyDownloadsTotal = "downloadsTotal"
	KeyDownloadsWeek  = "downloadsWeek"
	KeyAuthor         = "author"
	KeyName           = "name"
)

// RecentWindow is how recently a library must have been created to be
// placed in the trailing "recent" block of the default order.
const RecentWindow = 14 * 24 * time.Hour

// ErrUnknownStrategy is returned for an unregistered sort key.
var ErrUnknownStrategy = errors.New("unknown sort strategy")

// SortFunc returns a newly ordered copy of items. now anchors
// time-relative orderings.
type SortFunc func(items []catalog.Library, now time.Time) []catalog.Library

// Strategy is a named, labelled ordering.
type Strategy struct {
	Key   string
	Label string
	Sort  SortFunc
}

// strategies in menu order.
var strategies = []Strategy{ //nolint:gochecknoglobals
	{Key: KeyDefault, Label: "Default", Sort: byDefault},
	{Key: KeyNew, Label: "New", Sort: byDateDesc(catalog.Library.CreatedAt)},
	{Key: KeyUpdated, Label: "Updated", Sort: byDateDesc(catalog.Library.UpdatedAt)},
	{Key: KeyDownloadsTotal, Label: "Total Downloads", Sort: byCountDesc(func(l catalog.Library) int { return l.Downloads.Total })},
	{Key: KeyDownloadsWeek, Label: "Downloads This Week", Sort: byCountDesc(func(l catalog.Library) int { return l.Downloads.Week })},
	{Key: KeyAuthor, Label: "Author", Sort: byTextDesc(catalog.Library.FirstAuthor)},
	{Key: KeyName, Label: "Name", Sort: byTextDesc(func(l catalog.Library) string { return l.Name })},
}

// All returns every strategy in menu order.
func All() []Strategy {
	return slices.Clone(strategies)
}

// Keys returns every strategy key in menu order.
func Keys() []string {
	keys := make([]string, 0, len(strategies))
	for _, s := range strategies {
		keys = append(keys, s.Key)
	}

	return keys
}

// Lookup finds a strategy by key.
func Lookup(key string) (Strategy, error) {
	for _, s := range strategies {
		if s.Key == key {
			return s, nil
		}
	}

	return Strategy{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, key)
}

// Next returns the key following key in menu order, wrapping around.
func Next(key string) string {
	for i, s := range strategies {
		if s.Key == key {
			return strategies[(i+1)%len(strategies)].Key
		}
	}

	return KeyDefault
}

// Apply sorts items with the strategy registered under key.
func Apply(key string, items []catalog.Library, now time.Time) ([]catalog.Library, error) {
	strategy, err := Lookup(key)
	if err != nil {
		return nil, err
	}

	return strategy.Sort(items, now), nil
}

func sortedCopy(items []catalog.Library, compare func(a, b catalog.Library) int) []catalog.Library {
	out := slices.Clone(items)
	slices.SortStableFunc(out, compare)

	return out
}

// byDateDesc puts the most recent date first.
func byDateDesc(date func(catalog.Library) time.Time) SortFunc {
	return func(items []catalog.Library, _ time.Time) []catalog.Library {
		return sortedCopy(items, func(a, b catalog.Library) int {
			return date(b).Compare(date(a))
		})
	}
}

func byCountDesc(count func(catalog.Library) int) SortFunc {
	return func(items []catalog.Library, _ time.Time) []catalog.Library {
		return sortedCopy(items, func(a, b catalog.Library) int {
			return cmp.Compare(count(b), count(a))
		})
	}
}

// byTextDesc orders reverse-lexicographically using English collation.
func byTextDesc(text func(catalog.Library) string) SortFunc {
	return func(items []catalog.Library, _ time.Time) []catalog.Library {
		collator := collate.New(language.English)

		return sortedCopy(items, func(a, b catalog.Library) int {
			return collator.CompareString(text(b), text(a))
		})
	}
}

// byDefault puts everything created before the recent window first, by
// weekly downloads ascending, followed by the recent libraries oldest first.
func byDefault(items []catalog.Library, now time.Time) []catalog.Library {
	cutoff := now.Add(-RecentWindow)

	var established, recent []catalog.Library

	for _, item := range items {
		if item.CreatedAt().After(cutoff) {
			recent = append(recent, item)
		} else {
			established = append(established, item)
		}
	}

	slices.SortStableFunc(established, func(a, b catalog.Library) int {
		return cmp.Compare(a.Downloads.Week, b.Downloads.Week)
	})

	slices.SortStableFunc(recent, func(a, b catalog.Library) int {
		return a.CreatedAt().Compare(b.CreatedAt())
	})

	return append(established, recent...)
}
