// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/helpdesk/cmd/desk/cli"
	"github.com/bureau-foundation/helpdesk/lib/deskstore"
	"github.com/bureau-foundation/helpdesk/lib/deskui"
	"github.com/bureau-foundation/helpdesk/lib/schema/desk"
	"github.com/bureau-foundation/helpdesk/lib/tui"
)

type ticketsParams struct {
	configParams
	LogOutput string `json:"-" flag:"log-output" desc:"append JSON logs to this file (default: log_file from the configuration)"`
}

func ticketsCommand() *cli.Command {
	var params ticketsParams
	return &cli.Command{
		Name:    "tickets",
		Summary: "Open the interactive ticket browser",
		Description: `Open the interactive ticket browser.

Without a saved session the browser starts on the login screen; logging
in there saves the session as "desk login" does. Select a ticket to see
its details and notes, add notes with "n" and close it with "c".

While the browser runs it owns the terminal: errors are shown as
notifications and, with --log-output, all logs go to a JSON file.`,
		Usage: "desk tickets [flags]",
		Examples: []cli.Example{
			{Description: "Browse tickets, logging to a file", Command: "desk tickets --log-output /tmp/desk.log"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 0, "desk tickets [flags]"); err != nil {
				return err
			}
			// The command logger writes to stderr, which the TUI owns.
			// Configuration problems are reported before it starts.
			env, err := params.load(logger)
			if err != nil {
				return err
			}

			tuiHandler := deskui.NewTUILogHandler(slog.LevelError)
			handlers := cli.Fanout{tuiHandler}
			logPath := params.LogOutput
			if logPath == "" {
				logPath = env.config.LogFile
			}
			if logPath != "" {
				fileHandler, closer, err := cli.OpenLogFile(logPath, env.config.Level())
				if err != nil {
					return err
				}
				defer closer.Close()
				handlers = append(handlers, fileHandler)
			}
			background := slog.New(handlers).With("command", "tickets")
			if err := env.connect(background); err != nil {
				return err
			}

			authenticated := false
			if _, err := env.authenticate(); err == nil {
				authenticated = true
			} else {
				background.Info("starting without a session", "error", err)
			}

			app := deskui.NewApp(deskui.AppConfig{
				Auth:    env.client,
				Tickets: deskstore.NewTicketStore(env.client, background),
				Notes:   deskstore.NewNoteStore(env.client, background),
				Options: deskui.ViewOptions{
					Theme:        tui.DefaultTheme,
					Keys:         deskui.DefaultKeyMap,
					ConfirmClose: env.config.ConfirmClose,
					Now:          time.Now,
				},
				ToastDuration: env.config.Toast(),
				Authenticated: authenticated,
				OnSession: func(session desk.Session) error {
					_, err := env.saveSession(session)
					return err
				},
				Logger: background,
			})

			program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
			tuiHandler.SetProgram(program)
			if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return cli.Internal("running ticket browser: %w", err)
			}
			return nil
		},
	}
}
