// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

// Package console formats command output for terminals, pipes and JSON
// consumers.
package console

import (
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/term"
)

// OutputState holds global output configuration. Results go to Out,
// everything else to Err.
type OutputState struct {
	Verbose bool
	JSON    bool
	Plain   bool

	Out io.Writer
	Err io.Writer
}

// DefaultOutput provides output formatting utilities.
var DefaultOutput = NewOutputState(os.Stdout, os.Stderr) //nolint:gochecknoglobals

// NewOutputState creates an output writing results to out and messages
// to errOut.
func NewOutputState(out, errOut io.Writer) *OutputState {
	return &OutputState{Out: out, Err: errOut}
}

// SetMode configures output mode.
func (o *OutputState) SetMode(verbose, json, plain bool) {
	o.Verbose = verbose
	o.JSON = json
	o.Plain = plain
}

// IsTTY checks if w is a terminal (not piped/redirected).
func (o *OutputState) IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)

	return ok && term.IsTerminal(int(file.Fd())) //nolint:gosec
}

// Bold formats text with bold when in TTY, uppercase when piped.
func (o *OutputState) Bold(text string) string {
	if o.JSON || o.Plain {
		return text
	}

	// no-color.org
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return text
	}

	if o.IsTTY(o.Out) {
		return "\033[1m" + text + "\033[0m"
	}

	return strings.ToUpper(text)
}

// Progressf writes progress messages (only if verbose and not JSON/Plain).
func (o *OutputState) Progressf(format string, args ...any) {
	if o.Verbose && !o.JSON && !o.Plain {
		fmt.Fprintf(o.Err, format+"\n", args...)
	}
}

// Successf writes success messages (only if not JSON/Plain).
func (o *OutputState) Successf(format string, args ...any) {
	if !o.JSON && !o.Plain {
		fmt.Fprintf(o.Err, "✓ "+format+"\n", args...)
	}
}

// Warningf writes warning messages.
func (o *OutputState) Warningf(format string, args ...any) {
	if o.Plain {
		fmt.Fprintf(o.Err, "warning: "+format+"\n", args...)
	} else {
		fmt.Fprintf(o.Err, "⚠ "+format+"\n", args...)
	}
}

// Errorf writes error messages.
func (o *OutputState) Errorf(format string, args ...any) {
	if o.Plain {
		fmt.Fprintf(o.Err, "error: "+format+"\n", args...)
	} else {
		fmt.Fprintf(o.Err, "✗ "+format+"\n", args...)
	}
}

// JSONResult writes a status-tagged JSON object.
func (o *OutputState) JSONResult(status string, data map[string]any) {
	result := map[string]any{
		"status": status,
	}
	maps.Copy(result, data)

	if err := json.NewEncoder(o.Out).Encode(result); err != nil {
		fmt.Fprintf(o.Err, "error encoding JSON: %v\n", err)
	}
}

// SuccessResult writes a command result, with an optional message for
// humans.
func (o *OutputState) SuccessResult(result any, message string) {
	if o.JSON {
		o.JSONResult("success", map[string]any{"result": result})

		return
	}

	if message != "" {
		o.Successf("%s", message)
	}

	_, _ = fmt.Fprintf(o.Out, "%v\n", result)
}

// ErrorResult reports a failure, also as JSON when requested.
func (o *OutputState) ErrorResult(err error, code int) {
	if o.JSON {
		o.JSONResult("error", map[string]any{
			"error": err.Error(),
			"code":  code,
		})
	}

	o.Errorf("%s", err.Error())
}

// PlainKeyValue outputs key:value pairs for machine parsing.
func (o *OutputState) PlainKeyValue(key, value string) {
	_, _ = fmt.Fprintf(o.Out, "%s:%s\n", key, value)
}

// PlainList outputs a simple list of items, one per line.
func (o *OutputState) PlainList(items []string) {
	for _, item := range items {
		_, _ = fmt.Fprintf(o.Out, "%s\n", item)
	}
}
