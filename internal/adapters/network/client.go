// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

// Package network fetches the catalog and its download statistics.
package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/janderssonse/libgallery/internal/catalog"
	"github.com/janderssonse/libgallery/internal/logging"
)

// ErrHTTPStatus is returned for any non-200 response.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// HTTPClient reads catalog resources from http(s) URLs or local paths.
type HTTPClient struct {
	client *http.Client
}

// NewHTTPClient creates a new HTTP client with timeout. A zero timeout
// means no limit.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			},
		},
	}
}

// Open returns the body behind location. Locations without an http or
// https scheme are read from the local filesystem.
func (c *HTTPClient) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !isRemote(location) {
		path := strings.TrimPrefix(location, "file://")

		// #nosec G304 -- the location is chosen by the user
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}

		return file, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()

		return nil, fmt.Errorf("%w: %s returned %d", ErrHTTPStatus, location, resp.StatusCode)
	}

	logging.Log.WithField("url", location).Debug("Fetching")

	return resp.Body, nil
}

// OpenCatalog starts streaming the newline-delimited catalog.
func (c *HTTPClient) OpenCatalog(ctx context.Context, location string) (*catalog.Stream, error) {
	body, err := c.Open(ctx, location)
	if err != nil {
		return nil, err
	}

	stream := catalog.NewStream(body)
	logging.Log.WithField("session", stream.SessionID()).WithField("catalog", location).Info("Catalog stream opened")

	return stream, nil
}

// FetchStats loads the download counters. An empty location yields empty
// stats.
func (c *HTTPClient) FetchStats(ctx context.Context, location string) (catalog.Stats, error) {
	if location == "" {
		return catalog.Stats{}, nil
	}

	body, err := c.Open(ctx, location)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = body.Close()
	}()

	return catalog.DecodeStats(body)
}

func isRemote(location string) bool {
	parsed, err := url.Parse(location)
	if err != nil {
		return false
	}

	return parsed.Scheme == "http" || parsed.Scheme == "https"
}
