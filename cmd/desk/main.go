// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Command desk is the support desk client: an interactive terminal UI
// for browsing tickets and adding notes, scriptable commands for the
// same operations, and an in-memory reference service for local use.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/helpdesk/cmd/desk/cli"
)

func main() {
	if err := run(); err != nil {
		// ExitError means the command already printed its output.
		var exitError *cli.ExitError
		if errors.As(err, &exitError) {
			os.Exit(exitError.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var toolError *cli.ToolError
		if errors.As(err, &toolError) {
			os.Exit(toolError.ExitCode())
		}
		os.Exit(1)
	}
}

// logLevel is the command logger's level. It starts at info and is
// raised or lowered once the configuration is loaded.
var logLevel slog.LevelVar

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := cli.NewCommandLogger(&logLevel)
	return Root().Execute(ctx, os.Args[1:], logger)
}
