// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

// Package models implements TUI screen models using Bubble Tea.
package models

import (
	"github.com/janderssonse/libgallery/internal/catalog"
	"github.com/janderssonse/libgallery/internal/tui/styles"
)

// GoodbyeMessage is shown after quitting.
const GoodbyeMessage = "Goodbye!\n"

// PageLoadedMsg carries a page of catalog records.
type PageLoadedMsg struct {
	Source  PageSource
	Records []catalog.Record
	Done    bool
	Err     error
}

// StatsLoadedMsg carries the download counters.
type StatsLoadedMsg struct {
	Stats catalog.Stats
	Err   error
}

// SearchMsg is posted when the debounced query settles.
type SearchMsg struct {
	Query string
}

// LinkOpenedMsg reports the outcome of opening a deep link.
type LinkOpenedMsg struct {
	URL string
	Err error
}

// ShowDetailMsg asks the app to open the detail view.
type ShowDetailMsg struct {
	Library catalog.Library
}

// CloseDetailMsg asks the app to return to the gallery.
type CloseDetailMsg struct{}

// ThemeChangedMsg hands the new styles to every screen.
type ThemeChangedMsg struct {
	Styles *styles.Styles
}

// SearchActivatedMsg indicates the search field gained or lost focus.
type SearchActivatedMsg struct {
	Active bool
}
