// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/helpdesk/cmd/desk/cli"
	"github.com/bureau-foundation/helpdesk/lib/version"
)

// Root builds the desk command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "desk",
		Description: `desk: support ticket client.

Browse your support tickets, add notes and close them, from an
interactive terminal UI ("desk tickets") or from scripts.`,
		Subcommands: []*cli.Command{
			loginCommand(),
			registerCommand(),
			logoutCommand(),
			whoamiCommand(),
			ticketsCommand(),
			ticketCommand(),
			noteCommand(),
			mockServerCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, _ []string, _ *slog.Logger) error {
					fmt.Printf("desk %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{Description: "Start a local service with demo data", Command: "desk mock-server"},
			{Description: "Log in (saves the session locally)", Command: "desk login demo@example.com"},
			{Description: "Browse tickets interactively", Command: "desk tickets"},
			{Description: "Close a ticket from a script", Command: "desk ticket close 65f1c2"},
		},
	}
}
