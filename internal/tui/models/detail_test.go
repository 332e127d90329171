// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/libgallery/internal/deeplink"
	"github.com/janderssonse/libgallery/internal/tui/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDetail(opened *[]string) *DetailModel {
	library := sampleHit().Library
	library.Authors[0].URL = "https://example.com/alice"

	return NewDetail(context.Background(), styles.New(styles.ThemeLight), library,
		deeplink.Options{Site: "https://libraries.example.com", Token: "t0k"},
		func(_ context.Context, url string) error {
			*opened = append(*opened, url)

			return nil
		}, 80, 20)
}

func TestDetailMarkdown(t *testing.T) {
	t.Parallel()

	var opened []string

	markdown := newTestDetail(&opened).Markdown()

	assert.Contains(t, markdown, "# Arrows\n")
	assert.Contains(t, markdown, "by [@alice](https://example.com/alice)")
	assert.Contains(t, markdown, "| Created | 15 Jan 2021 |")
	assert.Contains(t, markdown, "| Updated | 1 Feb 2021 |")
	assert.Contains(t, markdown, "| Downloads | 12,345 |")
	assert.Contains(t, markdown, "| Version | 1 |")
	assert.Contains(t, markdown, "## Items (2)\n\nleft arrow, right arrow")
	assert.Contains(t, markdown, "&token=t0k")
}

func TestDetailRendersContent(t *testing.T) {
	t.Parallel()

	var opened []string

	model := newTestDetail(&opened)
	assert.NotEmpty(t, model.View())

	model.Update(ThemeChangedMsg{Styles: styles.New(styles.ThemeDark)})
	assert.NotEmpty(t, model.View())
}

func TestDetailKeys(t *testing.T) {
	t.Parallel()

	var opened []string

	model := newTestDetail(&opened)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(LinkOpenedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, []string{msg.URL}, opened)

	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, CloseDetailMsg{}, cmd())
}
