// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

// Package logging holds the process-wide logger.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrBadLevel is returned for an unknown level name.
var ErrBadLevel = errors.New("bad log level")

// Log is shared by every package. It writes to stderr until redirected.
var Log = logrus.New() //nolint:gochecknoglobals

// ParseLevel maps a level name onto a logrus level. Trace and panic are
// not used.
func ParseLevel(level string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel, nil
	case "", "info":
		return logrus.InfoLevel, nil
	case "warning", "warn":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	case "fatal":
		return logrus.FatalLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("%w: %q", ErrBadLevel, level)
	}
}

// SetLogLevel applies a named level to Log.
func SetLogLevel(level string) error {
	parsed, err := ParseLevel(level)
	if err != nil {
		return err
	}

	Log.SetLevel(parsed)

	return nil
}

// UseWriter sends log output to w with the plain text formatter.
func UseWriter(w io.Writer) {
	Log.SetOutput(w)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
}

// ToFile redirects Log into path, creating parent directories. The
// returned closer restores stderr output.
func ToFile(path string) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	UseWriter(file)

	return func() error {
		Log.SetOutput(os.Stderr)

		return file.Close()
	}, nil
}
