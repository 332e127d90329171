// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

// Package catalog defines the library catalog records and turns a
// line-delimited JSON stream into normalized, displayable libraries.
package catalog

import (
	"fmt"
	"io"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// LibraryExtension is the file suffix of a downloadable library.
const LibraryExtension = ".excalidrawlib"

// Author is a credited library author.
type Author struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Record is one raw catalog entry as received from the catalog file.
type Record struct {
	Source      string   `json:"source"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Preview     string   `json:"preview"`
	Authors     []Author `json:"authors"`
	Created     string   `json:"created"`
	Updated     string   `json:"updated"`
	ItemNames   []string `json:"itemNames,omitempty"`
	Version     int      `json:"version,omitempty"`
}

// Downloads holds the download counters of a library.
type Downloads struct {
	Total int `json:"total"`
	Week  int `json:"week"`
}

// Stats maps a derived library id to its download counters.
type Stats map[string]Downloads

// Library is a Record enriched with its derived id and download counters.
type Library struct {
	Record

	ID        string    `json:"id"`
	Downloads Downloads `json:"downloads"`
}

// FirstAuthor returns the name of the first credited author, or "".
func (l Library) FirstAuthor() string {
	if len(l.Authors) == 0 {
		return ""
	}

	return l.Authors[0].Name
}

// CreatedAt parses the creation date. The zero time is returned for
// unparseable values.
func (l Library) CreatedAt() time.Time {
	return ParseDate(l.Created)
}

// UpdatedAt parses the last-updated date. The zero time is returned for
// unparseable values.
func (l Library) UpdatedAt() time.Time {
	return ParseDate(l.Updated)
}

// VersionOrDefault returns the declared library format version, defaulting to 1.
func (l Library) VersionOrDefault() int {
	if l.Version == 0 {
		return 1
	}

	return l.Version
}

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{ //nolint:gochecknoglobals
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// ParseDate parses catalog dates, which are usually plain YYYY-MM-DD.
func ParseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}

	return time.Time{}
}

// FormatDate renders a catalog date as "2 Jan 2006". Unparseable values are
// returned unchanged.
func FormatDate(value string) string {
	t := ParseDate(value)
	if t.IsZero() {
		return value
	}

	return t.Format("2 Jan 2006")
}

// replacement is a literal (old, new) pair applied by DeriveID.
type replacement struct {
	old string
	new string
}

// idReplacements are applied in order after lower-casing.
var idReplacements = []replacement{ //nolint:gochecknoglobals
	{old: "/", new: "-"},
	{old: LibraryExtension, new: ""},
}

// DeriveID derives the stable card id from a library source path,
// e.g. "Misc/arrows.excalidrawlib" becomes "misc-arrows".
func DeriveID(source string) string {
	id := strings.ToLower(source)
	for _, r := range idReplacements {
		id = strings.ReplaceAll(id, r.old, r.new)
	}

	return id
}

// Normalize attaches the derived id and the download counters from stats.
// A nil or incomplete stats table yields zero counters.
func Normalize(record Record, stats Stats) Library {
	id := DeriveID(record.Source)

	return Library{
		Record:    record,
		ID:        id,
		Downloads: stats[id],
	}
}

// DecodeStats decodes a statistics object keyed by derived library id.
func DecodeStats(r io.Reader) (Stats, error) {
	stats := Stats{}
	if err := json.NewDecoder(r).Decode(&stats); err != nil {
		return nil, fmt.Errorf("failed to decode stats: %w", err)
	}

	return stats, nil
}
