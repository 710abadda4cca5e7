// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/bureau-foundation/helpdesk/cmd/desk/cli"
	"github.com/bureau-foundation/helpdesk/lib/deskui"
	"github.com/bureau-foundation/helpdesk/lib/schema/desk"
	"github.com/bureau-foundation/helpdesk/lib/tui"
)

// submittedFormat is the date layout used wherever a ticket's
// submission date is shown.
const submittedFormat = "1/2/2006"

type listParams struct {
	configParams
	cli.JSONOutput
	Status string `json:"status" flag:"status" desc:"only show tickets with this status: new, open or closed"`
}

func ticketCommand() *cli.Command {
	return &cli.Command{
		Name:    "ticket",
		Summary: "List, show and close tickets",
		Subcommands: []*cli.Command{
			ticketListCommand(),
			ticketViewCommand(),
			ticketCloseCommand(),
		},
	}
}

func ticketListCommand() *cli.Command {
	var params listParams
	return &cli.Command{
		Name:    "list",
		Summary: "List your tickets",
		Usage:   "desk ticket list [flags]",
		Examples: []cli.Example{
			{Description: "Show open tickets as JSON", Command: "desk ticket list --status open --json"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 0, "desk ticket list [flags]"); err != nil {
				return err
			}
			var filter desk.Status
			if params.Status != "" {
				parsed, err := desk.ParseStatus(params.Status)
				if err != nil {
					return cli.Validation("--status: %w", err)
				}
				filter = parsed
			}
			env, err := params.load(logger)
			if err != nil {
				return err
			}
			if _, err := env.authenticate(); err != nil {
				return err
			}

			tickets, err := env.client.ListTickets(ctx)
			if err != nil {
				return cli.FromAPI("listing tickets", err)
			}
			var shown []desk.Ticket
			for _, ticket := range tickets {
				if filter == "" || ticket.Status == filter {
					shown = append(shown, ticket)
				}
			}
			if done, err := params.EmitJSON(shown); done {
				return err
			}
			writeTicketTable(os.Stdout, shown)
			return nil
		},
	}
}

func writeTicketTable(w io.Writer, tickets []desk.Ticket) {
	if len(tickets) == 0 {
		fmt.Fprintln(w, "No tickets")
		return
	}
	table := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(table, "ID\tDATE\tPRODUCT\tSTATUS")
	for _, ticket := range tickets {
		fmt.Fprintf(table, "%s\t%s\t%s\t%s\n",
			ticket.ID, ticket.CreatedAt.Local().Format(submittedFormat), ticket.Product, ticket.Status)
	}
	table.Flush()
}

type viewParams struct {
	configParams
	cli.JSONOutput
}

type ticketView struct {
	Ticket desk.Ticket `json:"ticket"`
	Notes  []desk.Note `json:"notes"`
}

func ticketViewCommand() *cli.Command {
	var params viewParams
	return &cli.Command{
		Name:    "view",
		Summary: "Show a ticket and its notes",
		Usage:   "desk ticket view <ticket-id> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 1, "desk ticket view <ticket-id> [flags]"); err != nil {
				return err
			}
			env, err := params.load(logger)
			if err != nil {
				return err
			}
			if _, err := env.authenticate(); err != nil {
				return err
			}

			ticket, err := env.client.GetTicket(ctx, args[0])
			if err != nil {
				return cli.FromAPI("fetching ticket", err)
			}
			notes, err := env.client.GetNotes(ctx, args[0])
			if err != nil {
				return cli.FromAPI("fetching notes", err)
			}
			if done, err := params.EmitJSON(ticketView{Ticket: ticket, Notes: notes}); done {
				return err
			}
			writeTicket(os.Stdout, ticket, notes, time.Now(), 80)
			return nil
		},
	}
}

func writeTicket(w io.Writer, ticket desk.Ticket, notes []desk.Note, now time.Time, width int) {
	theme := tui.DefaultTheme
	renderer := lipgloss.NewRenderer(w)
	fmt.Fprintf(w, "Ticket ID: %s  %s\n", ticket.ID, theme.StatusBadgeWith(renderer, ticket.Status))
	fmt.Fprintf(w, "Date Submitted: %s\n", ticket.CreatedAt.Local().Format(submittedFormat))
	fmt.Fprintf(w, "Product: %s\n\n", ticket.Product)
	fmt.Fprintln(w, "Description of Issue")
	fmt.Fprintln(w, tui.RenderMarkdownWith(renderer, ticket.Description, theme, width))

	if len(notes) == 0 {
		return
	}
	fmt.Fprintf(w, "\nNotes\n")
	for _, note := range notes {
		fmt.Fprintf(w, "\n%s · %s\n", noteAuthor(note), humanize.RelTime(note.CreatedAt, now, "ago", "from now"))
		fmt.Fprintln(w, tui.RenderMarkdownWith(renderer, note.Text, theme, width))
	}
}

func noteAuthor(note desk.Note) string {
	if note.IsStaff {
		return "Note from Staff"
	}
	return "Note from You"
}

func ticketCloseCommand() *cli.Command {
	var params configParams
	return &cli.Command{
		Name:    "close",
		Summary: "Close a ticket",
		Usage:   "desk ticket close <ticket-id> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 1, "desk ticket close <ticket-id> [flags]"); err != nil {
				return err
			}
			env, err := params.load(logger)
			if err != nil {
				return err
			}
			if _, err := env.authenticate(); err != nil {
				return err
			}

			ticket, err := env.client.CloseTicket(ctx, args[0])
			if err != nil {
				return cli.FromAPI("closing ticket", err)
			}
			logger.Debug("ticket closed", "ticket", ticket.ID, "status", ticket.Status)
			fmt.Fprintln(os.Stderr, deskui.TicketClosed)
			return nil
		},
	}
}

type noteAddParams struct {
	configParams
	File string `json:"-" flag:"file" desc:"read the note from this file, or - for stdin"`
}

func noteCommand() *cli.Command {
	return &cli.Command{
		Name:    "note",
		Summary: "List and add notes on a ticket",
		Subcommands: []*cli.Command{
			noteListCommand(),
			noteAddCommand(),
		},
	}
}

func noteListCommand() *cli.Command {
	var params viewParams
	return &cli.Command{
		Name:    "list",
		Summary: "List a ticket's notes",
		Usage:   "desk note list <ticket-id> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 1, "desk note list <ticket-id> [flags]"); err != nil {
				return err
			}
			env, err := params.load(logger)
			if err != nil {
				return err
			}
			if _, err := env.authenticate(); err != nil {
				return err
			}
			notes, err := env.client.GetNotes(ctx, args[0])
			if err != nil {
				return cli.FromAPI("fetching notes", err)
			}
			if done, err := params.EmitJSON(notes); done {
				return err
			}
			now := time.Now()
			for index, note := range notes {
				if index > 0 {
					fmt.Println()
				}
				fmt.Printf("%s · %s\n%s\n", noteAuthor(note), humanize.RelTime(note.CreatedAt, now, "ago", "from now"), note.Text)
			}
			return nil
		},
	}
}

func noteAddCommand() *cli.Command {
	var params noteAddParams
	return &cli.Command{
		Name:    "add",
		Summary: "Add a note to a ticket",
		Usage:   "desk note add <ticket-id> [text...] [flags]",
		Examples: []cli.Example{
			{Description: "Add a one-line note", Command: "desk note add 65f1c2 \"Restarting did not help\""},
			{Description: "Add a note written in an editor", Command: "desk note add 65f1c2 --file note.md"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) < 1 {
				return cli.Validation("missing argument\n\nUsage: desk note add <ticket-id> [text...] [flags]")
			}
			text, err := noteText(args[1:], params.File)
			if err != nil {
				return err
			}
			env, err := params.load(logger)
			if err != nil {
				return err
			}
			if _, err := env.authenticate(); err != nil {
				return err
			}

			note, err := env.client.CreateNote(ctx, text, args[0])
			if err != nil {
				return cli.FromAPI("adding note", err)
			}
			fmt.Fprintf(os.Stderr, "Added note %s to ticket %s\n", note.ID, args[0])
			return nil
		},
	}
}

// noteText takes the note from the remaining arguments or from file,
// not both. Trailing newlines are dropped and the rest is kept as
// written; the note must not be blank.
func noteText(words []string, file string) (string, error) {
	var text string
	switch {
	case file != "" && len(words) > 0:
		return "", cli.Validation("give the note as arguments or --file, not both")
	case file == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", cli.Internal("reading stdin: %w", err)
		}
		text = string(data)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", cli.Validation("reading note file: %w", err)
		}
		text = string(data)
	default:
		text = strings.Join(words, " ")
	}
	text = strings.TrimRight(text, "\r\n")
	if strings.TrimSpace(text) == "" {
		return "", cli.Validation("note text is empty")
	}
	return text, nil
}
