// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

var discard = slog.New(slog.DiscardHandler)

func execute(root *Command, args ...string) error {
	return root.Execute(context.Background(), args, discard)
}

func TestExecuteDispatchesNestedSubcommands(t *testing.T) {
	var called string
	var received []string
	root := &Command{
		Name: "desk",
		Subcommands: []*Command{
			{
				Name: "ticket",
				Subcommands: []*Command{
					{
						Name: "close",
						Run: func(_ context.Context, args []string, _ *slog.Logger) error {
							called = "ticket close"
							received = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := execute(root, "ticket", "close", "t1"); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if called != "ticket close" || len(received) != 1 || received[0] != "t1" {
		t.Errorf("called=%q args=%v", called, received)
	}
}

type testParams struct {
	JSONOutput
	Listen  string        `flag:"listen" desc:"listen address" default:"127.0.0.1:5000"`
	Timeout time.Duration `flag:"timeout" desc:"request timeout" default:"2s"`
	Force   bool          `flag:"force,f" desc:"skip checks"`
}

func TestExecuteBindsParams(t *testing.T) {
	var params testParams
	var received []string
	root := &Command{
		Name: "desk",
		Subcommands: []*Command{{
			Name:   "serve",
			Params: func() any { return &params },
			Run: func(_ context.Context, args []string, _ *slog.Logger) error {
				received = args
				return nil
			},
		}},
	}

	if err := execute(root, "serve", "--timeout", "5s", "-f", "--json", "extra"); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if params.Listen != "127.0.0.1:5000" {
		t.Errorf("listen = %q, want the default", params.Listen)
	}
	if params.Timeout != 5*time.Second || !params.Force || !params.OutputJSON {
		t.Errorf("params = %+v", params)
	}
	if len(received) != 1 || received[0] != "extra" {
		t.Errorf("args = %v", received)
	}
}

func TestExecuteSuggestsCommand(t *testing.T) {
	root := &Command{
		Name:       "desk",
		HelpOutput: &bytes.Buffer{},
		Subcommands: []*Command{
			{Name: "tickets", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
		},
	}
	err := execute(root, "tickest")
	if err == nil || !strings.Contains(err.Error(), `did you mean "tickets"`) {
		t.Fatalf("error = %v", err)
	}
	var toolError *ToolError
	if !errors.As(err, &toolError) || toolError.Category != CategoryValidation {
		t.Errorf("error is not a validation error: %#v", err)
	}
}

func TestExecuteSuggestsFlag(t *testing.T) {
	var params testParams
	root := &Command{
		Name:   "serve",
		Params: func() any { return &params },
		Run:    func(context.Context, []string, *slog.Logger) error { return nil },
	}
	err := execute(root, "--lisen", ":80")
	if err == nil || !strings.Contains(err.Error(), "did you mean --listen?") {
		t.Errorf("error = %v", err)
	}
}

func TestExecuteRequiresSubcommand(t *testing.T) {
	var help bytes.Buffer
	root := &Command{
		Name:        "desk",
		HelpOutput:  &help,
		Subcommands: []*Command{{Name: "login", Summary: "Log in"}},
	}
	if err := execute(root); err == nil {
		t.Fatal("missing subcommand accepted")
	}
	if !strings.Contains(help.String(), "login") || !strings.Contains(help.String(), "Log in") {
		t.Errorf("help does not list subcommands:\n%s", help.String())
	}
}

func TestHelpFlagPrintsUsage(t *testing.T) {
	var help bytes.Buffer
	var params testParams
	root := &Command{
		Name:       "desk",
		HelpOutput: &help,
		Subcommands: []*Command{{
			Name:     "mock-server",
			Summary:  "Run the reference service",
			Params:   func() any { return &params },
			Examples: []Example{{Description: "Serve locally", Command: "desk mock-server"}},
			Run:      func(context.Context, []string, *slog.Logger) error { t.Error("Run called for --help"); return nil },
		}},
	}
	if err := execute(root, "mock-server", "--help"); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, want := range []string{"Usage:\n  desk mock-server [flags]", "--listen", "# Serve locally"} {
		if !strings.Contains(help.String(), want) {
			t.Errorf("help missing %q:\n%s", want, help.String())
		}
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"login", "login", 0},
		{"logn", "login", 1},
		{"tikcet", "ticket", 2},
		{"kitten", "sitting", 3},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}
