// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/bureau-foundation/helpdesk/cmd/desk/cli"
	"github.com/bureau-foundation/helpdesk/lib/deskui"
	"github.com/bureau-foundation/helpdesk/lib/secret"
)

type loginParams struct {
	configParams
	PasswordFile string `json:"-" flag:"password-file" desc:"read the password from this file instead of prompting"`
}

func loginCommand() *cli.Command {
	var params loginParams
	return &cli.Command{
		Name:    "login",
		Summary: "Log in and save the session",
		Description: `Log in to the ticket service and save the session locally.

The session file is stored at $DESK_SESSION_FILE, or
$XDG_CONFIG_HOME/helpdesk/session.json, with mode 0600. Later commands
and the interactive UI use it without asking again.

The password is prompted for without echo. When stdin is not a terminal
one line is read from it, so it can be piped in scripts.`,
		Usage: "desk login <email> [flags]",
		Examples: []cli.Example{
			{Description: "Log in interactively", Command: "desk login ada@example.com"},
			{Description: "Log in from a script", Command: "printf '%s\\n' \"$PASSWORD\" | desk login ada@example.com"},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 1, "desk login <email> [flags]"); err != nil {
				return err
			}
			env, err := params.load(logger)
			if err != nil {
				return err
			}

			password, err := readPassword(params.PasswordFile, "Password")
			if err != nil {
				return err
			}
			form := deskui.NewLoginForm(env.client)
			form.Change(deskui.FieldEmail, args[0])
			form.Change(deskui.FieldPassword, password.String())
			password.Close()

			return finishAuth(env, submitForm(form.Submit()), os.Stderr)
		},
	}
}

type registerParams struct {
	configParams
	PasswordFile string `json:"-" flag:"password-file" desc:"read the password from this file instead of prompting (no confirmation)"`
}

func registerCommand() *cli.Command {
	var params registerParams
	return &cli.Command{
		Name:    "register",
		Summary: "Create an account and save the session",
		Description: `Create an account on the ticket service and save the session, as
"desk login" does. The password is asked for twice; the two entries must
match.`,
		Usage: "desk register <name> <email> [flags]",
		Examples: []cli.Example{
			{Description: "Create an account", Command: "desk register \"Ada Lovelace\" ada@example.com"},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 2, "desk register <name> <email> [flags]"); err != nil {
				return err
			}
			env, err := params.load(logger)
			if err != nil {
				return err
			}

			password, err := readPassword(params.PasswordFile, "Password")
			if err != nil {
				return err
			}
			defer password.Close()
			confirmation := password
			if params.PasswordFile == "" {
				confirmation, err = readPassword("", "Confirm password")
				if err != nil {
					return err
				}
				defer confirmation.Close()
			}

			var rejected string
			form := deskui.NewRegisterForm(env.client, deskui.NotifierFunc(func(_ deskui.NotificationKind, message string) {
				rejected = message
			}))
			form.Change(deskui.FieldName, args[0])
			form.Change(deskui.FieldEmail, args[1])
			form.Change(deskui.FieldPassword, password.String())
			form.Change(deskui.FieldConfirmPassword, confirmation.String())

			command := form.Submit()
			if command == nil {
				return cli.Validation("%s", rejected)
			}
			return finishAuth(env, submitForm(command), os.Stderr)
		},
	}
}

// submitForm runs a form's submit command synchronously.
func submitForm(command tea.Cmd) deskui.AuthResultMsg {
	return command().(deskui.AuthResultMsg)
}

func finishAuth(env *environment, result deskui.AuthResultMsg, output io.Writer) error {
	if result.Err != nil {
		action := "login"
		if result.Registered {
			action = "registration"
		}
		return cli.FromAPI(action+" failed", result.Err)
	}
	session, err := env.saveSession(result.Session)
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "Logged in as %s\n", describeSession(session))
	fmt.Fprintf(output, "Session saved to %s\n", env.sessionPath)
	return nil
}

// readPassword reads from passwordFile when set, otherwise from stdin
// (without echo on a terminal).
func readPassword(passwordFile, label string) (*secret.Buffer, error) {
	if passwordFile != "" {
		file, err := os.Open(passwordFile)
		if err != nil {
			return nil, cli.Validation("opening password file: %w", err)
		}
		defer file.Close()
		buffer, err := secret.ReadLine(file)
		if err != nil {
			return nil, cli.Validation("reading %s: %w", passwordFile, err)
		}
		return buffer, nil
	}
	buffer, err := secret.ReadPassword(os.Stdin, os.Stderr, label)
	if err != nil {
		return nil, cli.Validation("reading %s: %w", label, err)
	}
	return buffer, nil
}

func logoutCommand() *cli.Command {
	var params configParams
	return &cli.Command{
		Name:    "logout",
		Summary: "Remove the saved session",
		Usage:   "desk logout [flags]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 0, "desk logout [flags]"); err != nil {
				return err
			}
			env, err := params.load(logger)
			if err != nil {
				return err
			}
			if err := cli.RemoveSession(env.sessionPath); err != nil {
				return cli.Internal("%w", err)
			}
			fmt.Fprintf(os.Stderr, "Removed %s\n", env.sessionPath)
			return nil
		},
	}
}

type whoamiParams struct {
	configParams
	cli.JSONOutput
}

type whoamiOutput struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	APIURL      string     `json:"api_url"`
	SessionFile string     `json:"session_file"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func whoamiCommand() *cli.Command {
	var params whoamiParams
	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the logged-in account",
		Description: `Show the account in the saved session and when its token expires.
Only the local session file is read.`,
		Usage:  "desk whoami [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 0, "desk whoami [flags]"); err != nil {
				return err
			}
			env, err := params.load(logger)
			if err != nil {
				return err
			}
			session, err := env.authenticate()
			if err != nil {
				return err
			}

			output := whoamiOutput{
				ID:          session.ID,
				Name:        session.Name,
				Email:       session.Email,
				APIURL:      session.APIURL,
				SessionFile: env.sessionPath,
			}
			if expiry, ok := session.ExpiresAt(); ok {
				output.ExpiresAt = &expiry
			}
			if done, err := params.EmitJSON(output); done {
				return err
			}

			fmt.Printf("User:         %s\n", describeSession(session))
			fmt.Printf("Service:      %s\n", output.APIURL)
			fmt.Printf("Session file: %s\n", output.SessionFile)
			if output.ExpiresAt != nil {
				fmt.Printf("Expires:      %s\n", humanize.Time(*output.ExpiresAt))
			}
			return nil
		},
	}
}
