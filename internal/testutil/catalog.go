// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/janderssonse/libgallery/internal/catalog"
	"github.com/stretchr/testify/require"
)

// Records builds count libraries named "Library 00", "Library 01" and so
// on, sourced from misc/lib-NN.excalidrawlib and created on created.
func Records(count int, created string) []catalog.Record {
	records := make([]catalog.Record, 0, count)
	for i := range count {
		records = append(records, catalog.Record{
			Source:  fmt.Sprintf("misc/lib-%02d%s", i, catalog.LibraryExtension),
			Name:    fmt.Sprintf("Library %02d", i),
			Created: created,
			Updated: created,
		})
	}

	return records
}

// JSONL encodes records one per line.
func JSONL(t *testing.T, records []catalog.Record) string {
	t.Helper()

	lines := make([]string, 0, len(records))

	for _, record := range records {
		line, err := json.Marshal(record)
		require.NoError(t, err)

		lines = append(lines, string(line))
	}

	return strings.Join(lines, "\n")
}

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// CatalogServer serves files keyed by request path, such as
// "/libraries.jsonl.json". Unknown paths answer 404. The server is closed
// when the test ends.
func CatalogServer(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)

			return
		}

		_, _ = w.Write([]byte(body))
	}))

	t.Cleanup(server.Close)

	return server
}
