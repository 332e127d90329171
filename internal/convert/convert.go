// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

// Package convert turns a JSON array file into the newline-delimited form
// the gallery streams.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/tidwall/gjson"
)

// OutputSuffix replaces the input's .json extension.
const OutputSuffix = ".jsonl.json"

var (
	// ErrInvalidJSON is returned when the input does not parse.
	ErrInvalidJSON = errors.New("invalid JSON")
	// ErrNotArray is returned when the top-level value is not an array.
	ErrNotArray = errors.New("top-level JSON value is not an array")
	// ErrLocked is returned while another conversion writes the same output.
	ErrLocked = errors.New("output file is locked by another process")
)

// Result describes a finished conversion.
type Result struct {
	Input   string `json:"input"`
	Output  string `json:"output"`
	Records int    `json:"records"`
}

// OutputPath derives the output file name from input.
func OutputPath(input string) string {
	return strings.TrimSuffix(input, ".json") + OutputSuffix
}

// Lines validates data as a JSON array and writes each element, serialised
// as a browser would, on its own line to w. Lines are separated, not
// terminated, by newlines.
func Lines(data []byte, w io.Writer) (int, error) {
	if !gjson.ValidBytes(data) {
		return 0, ErrInvalidJSON
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return 0, ErrNotArray
	}

	var (
		count    int
		buf      bytes.Buffer
		writeErr error
	)

	root.ForEach(func(_, element gjson.Result) bool {
		buf.Reset()

		if count > 0 {
			buf.WriteByte('\n')
		}

		writeValue(&buf, element)

		if _, err := w.Write(buf.Bytes()); err != nil {
			writeErr = fmt.Errorf("failed to write element %d: %w", count, err)

			return false
		}

		count++

		return true
	})

	return count, writeErr
}

// File converts input and writes the result next to it. The output only
// appears once the whole conversion succeeded.
func File(ctx context.Context, input string) (Result, error) {
	result := Result{Input: input, Output: OutputPath(input)}

	// #nosec G304 -- the input path is chosen by the user
	data, err := os.ReadFile(input)
	if err != nil {
		return result, fmt.Errorf("failed to read %s: %w", input, err)
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	lock := flock.New(result.Output + ".lock")

	locked, err := lock.TryLock()
	if err != nil {
		return result, fmt.Errorf("failed to lock %s: %w", result.Output, err)
	}

	if !locked {
		return result, ErrLocked
	}

	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	tmp, err := os.CreateTemp(filepath.Dir(result.Output), "."+filepath.Base(result.Output)+".*")
	if err != nil {
		return result, fmt.Errorf("failed to create output: %w", err)
	}

	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	count, err := Lines(data, tmp)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to write output: %w", closeErr)
	}

	if err != nil {
		return result, err
	}

	if err := os.Rename(tmp.Name(), result.Output); err != nil {
		return result, fmt.Errorf("failed to write %s: %w", result.Output, err)
	}

	result.Records = count

	return result, nil
}
