// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package console

import (
	"bytes"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuffered() (*OutputState, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer

	return NewOutputState(&out, &errOut), &out, &errOut
}

func TestOutputStateSetMode(t *testing.T) {
	t.Parallel()

	o, _, _ := newBuffered()

	o.SetMode(true, false, true)
	assert.True(t, o.Verbose)
	assert.False(t, o.JSON)
	assert.True(t, o.Plain)
}

func TestOutputStateBold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		json     bool
		plain    bool
		expected string
	}{
		{name: "plain mode returns unformatted", plain: true, expected: "libraries"},
		{name: "json mode returns unformatted", json: true, expected: "libraries"},
		{name: "pipes get uppercase", expected: "LIBRARIES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			o, _, _ := newBuffered()
			o.SetMode(false, tt.json, tt.plain)

			if !tt.json && !tt.plain {
				// NO_COLOR in the test environment disables formatting too.
				got := o.Bold("libraries")
				assert.Contains(t, []string{"libraries", "LIBRARIES"}, got)

				return
			}

			assert.Equal(t, tt.expected, o.Bold("libraries"))
		})
	}
}

func TestOutputStateMessages(t *testing.T) {
	t.Parallel()

	o, out, errOut := newBuffered()

	o.Progressf("hidden %d", 1)
	assert.Empty(t, errOut.String())

	o.SetMode(true, false, false)
	o.Progressf("loading page %d", 2)
	o.Successf("done")
	o.Warningf("stats unavailable")
	o.Errorf("boom")

	assert.Equal(t, "loading page 2\n✓ done\n⚠ stats unavailable\n✗ boom\n", errOut.String())
	assert.Empty(t, out.String())

	errOut.Reset()
	o.SetMode(false, false, true)
	o.Warningf("w")
	o.Errorf("e")
	assert.Equal(t, "warning: w\nerror: e\n", errOut.String())
}

func TestOutputStateSuccessResult(t *testing.T) {
	t.Parallel()

	o, out, errOut := newBuffered()
	o.SuccessResult("libraries.jsonl.json", "converted")

	assert.Equal(t, "libraries.jsonl.json\n", out.String())
	assert.Equal(t, "✓ converted\n", errOut.String())

	o, out, errOut = newBuffered()
	o.SetMode(false, true, false)
	o.SuccessResult(map[string]int{"records": 2}, "converted")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "success", decoded["status"])
	assert.Equal(t, map[string]any{"records": float64(2)}, decoded["result"])
	assert.Empty(t, errOut.String())
}

func TestOutputStateErrorResult(t *testing.T) {
	t.Parallel()

	o, out, errOut := newBuffered()
	o.SetMode(false, true, false)
	o.ErrorResult(errors.New("not an array"), 3)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "error", decoded["status"])
	assert.InDelta(t, 3, decoded["code"], 0)
	assert.Equal(t, "✗ not an array\n", errOut.String())
}

func TestOutputStatePlain(t *testing.T) {
	t.Parallel()

	o, out, _ := newBuffered()
	o.PlainKeyValue("sort", "name")
	o.PlainList([]string{"a", "b"})

	assert.Equal(t, "sort:name\na\nb\n", out.String())
}
