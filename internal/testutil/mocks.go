// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

// Package testutil provides mocks and catalog fixtures shared by tests.
package testutil

import (
	"context"

	"github.com/janderssonse/libgallery/internal/catalog"
	"github.com/stretchr/testify/mock"
)

// MockPageSource mocks a paged catalog stream.
type MockPageSource struct {
	mock.Mock
}

// Next mocks reading the next page.
func (m *MockPageSource) Next(ctx context.Context, limit int) ([]catalog.Record, bool, error) {
	args := m.Called(ctx, limit)

	records, _ := args.Get(0).([]catalog.Record)

	return records, args.Bool(1), args.Error(2)
}

// Close mocks releasing the stream.
func (m *MockPageSource) Close() error {
	return m.Called().Error(0)
}

// MockOpener mocks opening a URL in the browser.
type MockOpener struct {
	mock.Mock
}

// OpenURL mocks launching the browser.
func (m *MockOpener) OpenURL(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}
