// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

// Package platform runs the desktop helpers used to open links.
package platform

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/janderssonse/libgallery/internal/logging"
)

// ErrNoOpener is returned when no URL opener exists for the platform.
var ErrNoOpener = errors.New("no URL opener available")

// CommandRunner executes external commands with captured output so the
// terminal UI is not disturbed.
type CommandRunner struct {
	dryRun bool
	goos   string
}

// NewCommandRunner creates a new command runner. A dry-run runner only
// logs what it would execute.
func NewCommandRunner(dryRun bool) *CommandRunner {
	return &CommandRunner{
		dryRun: dryRun,
		goos:   runtime.GOOS,
	}
}

// Execute runs a command to completion.
func (r *CommandRunner) Execute(ctx context.Context, name string, args ...string) error {
	logging.Log.WithField("command", name+" "+strings.Join(args, " ")).Debug("Executing")

	if r.dryRun {
		return nil
	}

	// #nosec G204 -- the command is one of the fixed openers
	cmd := exec.CommandContext(ctx, name, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		if detail := strings.TrimSpace(string(output)); detail != "" {
			return fmt.Errorf("command failed: %w (output: %s)", err, detail)
		}

		return fmt.Errorf("command failed: %w", err)
	}

	return nil
}

// CommandExists checks if a command is available on the system.
func (r *CommandRunner) CommandExists(name string) bool {
	_, err := exec.LookPath(name)

	return err == nil
}

// Opener returns the command and leading arguments that open a URL.
func (r *CommandRunner) Opener() (string, []string, error) {
	switch r.goos {
	case "darwin":
		return "open", nil, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler"}, nil
	}

	for _, candidate := range []string{"xdg-open", "wslview", "sensible-browser"} {
		if r.dryRun || r.CommandExists(candidate) {
			return candidate, nil, nil
		}
	}

	return "", nil, ErrNoOpener
}

// OpenURL opens target in the desktop browser.
func (r *CommandRunner) OpenURL(ctx context.Context, target string) error {
	name, args, err := r.Opener()
	if err != nil {
		return err
	}

	return r.Execute(ctx, name, append(args, target)...)
}
