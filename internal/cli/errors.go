// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/janderssonse/libgallery/internal/adapters/network"
	"github.com/janderssonse/libgallery/internal/adapters/platform"
	"github.com/janderssonse/libgallery/internal/config"
	"github.com/janderssonse/libgallery/internal/convert"
	"github.com/janderssonse/libgallery/internal/gallery"
	"github.com/janderssonse/libgallery/internal/sorting"
	"github.com/janderssonse/libgallery/internal/tui"
)

// Exit codes follow standard Unix conventions for better scripting support.
const (
	ExitSuccess       = 0 // Operation completed successfully
	ExitGeneralError  = 1 // Generic failure (catch-all)
	ExitUsageError    = 2 // Invalid command line usage
	ExitConfigError   = 3 // Configuration file error
	ExitNotFoundError = 5 // Requested resource not found

	ExitNetworkError = 11 // Network operation failed
	ExitSystemError  = 12 // System call failed
)

// ExitError carries the process exit code for a failure.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// NewExitError creates an ExitError with the specified code and message.
func NewExitError(code int, message string, err error) *ExitError {
	return &ExitError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code for err, ExitGeneralError when it carries
// none.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitGeneralError
}

// classify wraps err with the exit code matching its cause.
func classify(message string, err error) error {
	var (
		exitErr *ExitError
		netErr  net.Error
	)

	switch {
	case err == nil:
		return nil
	case errors.As(err, &exitErr):
		return err
	case errors.Is(err, sorting.ErrUnknownStrategy), errors.Is(err, tui.ErrNoTerminal):
		return NewExitError(ExitUsageError, message, err)
	case errors.Is(err, config.ErrInvalidConfig):
		return NewExitError(ExitConfigError, message, err)
	case errors.Is(err, gallery.ErrUnknownLibrary), errors.Is(err, os.ErrNotExist):
		return NewExitError(ExitNotFoundError, message, err)
	case errors.Is(err, network.ErrHTTPStatus), errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr):
		return NewExitError(ExitNetworkError, message, err)
	case errors.Is(err, convert.ErrLocked), errors.Is(err, platform.ErrNoOpener):
		return NewExitError(ExitSystemError, message, err)
	default:
		return NewExitError(ExitGeneralError, message, err)
	}
}
