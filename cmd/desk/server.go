// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/bureau-foundation/helpdesk/cmd/desk/cli"
	"github.com/bureau-foundation/helpdesk/lib/mockdesk"
)

type mockServerParams struct {
	Listen     string `json:"listen"  flag:"listen"      desc:"address to listen on" default:"127.0.0.1:5000"`
	SecretFile string `json:"-"       flag:"secret-file" desc:"file holding the token signing secret (default: random per run)"`
	NoSeed     bool   `json:"no_seed" flag:"no-seed"     desc:"start with no accounts or tickets"`
}

func mockServerCommand() *cli.Command {
	var params mockServerParams
	return &cli.Command{
		Name:    "mock-server",
		Summary: "Run an in-memory ticket service",
		Description: `Run an in-memory implementation of the ticket service API, for trying
the client and for tests. State is lost when the server stops.

Unless --no-seed is given, a demo account is created:

  demo@example.com / demo1234

with a new, an open and a closed ticket.`,
		Usage: "desk mock-server [flags]",
		Examples: []cli.Example{
			{Description: "Serve on the default address and point the client at it", Command: "desk mock-server & DESK_API_URL=http://127.0.0.1:5000 desk tickets"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 0, "desk mock-server [flags]"); err != nil {
				return err
			}
			signingSecret, err := loadSigningSecret(params.SecretFile)
			if err != nil {
				return err
			}
			server, err := mockdesk.New(mockdesk.Config{Secret: signingSecret, Logger: logger})
			if err != nil {
				return cli.Internal("%w", err)
			}
			if !params.NoSeed {
				if _, err := server.Seed(); err != nil {
					return cli.Internal("%w", err)
				}
			}

			listener, err := net.Listen("tcp", params.Listen)
			if err != nil {
				return cli.Validation("listening on %s: %w", params.Listen, err)
			}
			httpServer := &http.Server{
				Handler:           server.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			logger.Info("serving", "address", listener.Addr().String(), "seeded", !params.NoSeed)
			return serveUntilDone(ctx, httpServer, listener, logger)
		},
	}
}

// serveUntilDone serves until ctx is cancelled, then shuts down
// gracefully.
func serveUntilDone(ctx context.Context, server *http.Server, listener net.Listener, logger *slog.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		return cli.Internal("serving: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return cli.Internal("shutting down: %w", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return cli.Internal("serving: %w", err)
	}
	return nil
}

func loadSigningSecret(path string) ([]byte, error) {
	if path == "" {
		signingSecret := make([]byte, 32)
		if _, err := rand.Read(signingSecret); err != nil {
			return nil, cli.Internal("generating signing secret: %w", err)
		}
		return signingSecret, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cli.Validation("reading secret file: %w", err)
	}
	if len(data) == 0 {
		return nil, cli.Validation("secret file %s is empty", path)
	}
	return data, nil
}

