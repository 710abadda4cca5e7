// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bureau-foundation/helpdesk/cmd/desk/cli"
	"github.com/bureau-foundation/helpdesk/lib/codec"
	"github.com/bureau-foundation/helpdesk/lib/config"
	"github.com/bureau-foundation/helpdesk/lib/deskapi"
	"github.com/bureau-foundation/helpdesk/lib/schema/desk"
)

// configParams is embedded by every command that talks to the service.
type configParams struct {
	ConfigFile string `json:"-" flag:"config" desc:"configuration file, YAML or JSONC (default: $DESK_CONFIG)"`
}

// environment is what a command needs to reach the service.
type environment struct {
	config      *config.Config
	client      *deskapi.Client
	sessionPath string
	logger      *slog.Logger
}

// load reads and validates the configuration and builds an
// unauthenticated client.
func (params configParams) load(logger *slog.Logger) (*environment, error) {
	var cfg *config.Config
	var err error
	if params.ConfigFile != "" {
		cfg, err = config.LoadFile(params.ConfigFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, cli.Validation("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration: %w", err)
	}
	logLevel.Set(cfg.Level())

	env := &environment{
		config:      cfg,
		sessionPath: cli.SessionFilePath(cfg.SessionFile),
	}
	if err := env.connect(logger); err != nil {
		return nil, err
	}
	return env, nil
}

// connect (re)builds the client, logging to logger. Any token already
// installed is dropped.
func (env *environment) connect(logger *slog.Logger) error {
	wire, err := codec.ByName(env.config.Wire)
	if err != nil {
		return cli.Validation("%w", err)
	}
	client, err := deskapi.NewClient(deskapi.ClientConfig{
		BaseURL: env.config.APIURL,
		Wire:    wire,
		Timeout: env.config.Timeout(),
		Logger:  logger,
	})
	if err != nil {
		return cli.Internal("creating client: %w", err)
	}
	env.client = client
	env.logger = logger
	return nil
}

// authenticate installs the saved session's token on the client.
func (env *environment) authenticate() (*cli.Session, error) {
	session, err := cli.LoadSessionFrom(env.sessionPath)
	if err != nil {
		if errors.Is(err, cli.ErrNoSession) {
			return nil, cli.Forbidden("%w", err)
		}
		return nil, cli.Internal("%w", err)
	}
	if err := session.CheckExpiry(time.Now()); err != nil {
		return nil, cli.Forbidden("%w", err)
	}
	if session.APIURL != "" && session.APIURL != env.config.APIURL {
		env.logger.Warn("session was issued by a different service",
			"session_api_url", session.APIURL,
			"api_url", env.config.APIURL,
		)
	}
	env.client.SetToken(session.Token)
	return session, nil
}

// saveSession stores a login result, installs its token and returns
// the saved form.
func (env *environment) saveSession(result desk.Session) (*cli.Session, error) {
	session := cli.NewSession(result, env.config.APIURL)
	if err := cli.SaveSessionTo(session, env.sessionPath); err != nil {
		return nil, cli.Internal("saving session: %w", err)
	}
	env.client.SetToken(session.Token)
	env.logger.Debug("session saved", "path", env.sessionPath, "user", session.ID)
	return session, nil
}

// requireArgs checks the positional argument count.
func requireArgs(args []string, count int, usage string) error {
	if len(args) < count {
		return cli.Validation("missing argument\n\nUsage: %s", usage)
	}
	if len(args) > count {
		return cli.Validation("unexpected argument: %s\n\nUsage: %s", args[count], usage)
	}
	return nil
}

func describeSession(session *cli.Session) string {
	if session.Email == "" {
		return session.Name
	}
	return fmt.Sprintf("%s <%s>", session.Name, session.Email)
}
