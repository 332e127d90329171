// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

// Package main provides the CLI entry point for libgallery.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/janderssonse/libgallery/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewCLI().Run(ctx, os.Args); err != nil {
		exitErr := &cli.ExitError{}
		if errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "%s\n", exitErr.Error())

			return exitErr.Code
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return cli.ExitGeneralError
	}

	return cli.ExitSuccess
}
