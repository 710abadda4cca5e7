// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bureau-foundation/helpdesk/lib/schema/desk"
)

// ErrNoSession is returned when no session file exists.
var ErrNoSession = errors.New("not logged in")

// ErrSessionExpired is returned when the saved token has expired.
var ErrSessionExpired = errors.New("session expired")

// Session is the saved login state. It is written by "desk login" and
// "desk register" and loaded by every command that talks to the
// service.
type Session struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`

	// APIURL records which service issued the token.
	APIURL string `json:"api_url"`
}

// NewSession builds the saved form of a login result.
func NewSession(result desk.Session, apiURL string) *Session {
	return &Session{
		ID:     result.ID,
		Name:   result.Name,
		Email:  result.Email,
		Token:  result.Token,
		APIURL: apiURL,
	}
}

// SessionFilePath returns where the session lives: override when set
// (the session_file config value), then DESK_SESSION_FILE, then
// $XDG_CONFIG_HOME/helpdesk/session.json, then
// ~/.config/helpdesk/session.json.
func SessionFilePath(override string) string {
	if override != "" {
		return override
	}
	if envPath := os.Getenv("DESK_SESSION_FILE"); envPath != "" {
		return envPath
	}
	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "helpdesk-session.json")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "helpdesk", "session.json")
}

// LoadSessionFrom reads a session file. A missing file wraps
// ErrNoSession.
func LoadSessionFrom(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no session at %s (run \"desk login\" first)", ErrNoSession, path)
		}
		return nil, fmt.Errorf("reading session file %s: %w", path, err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parsing session file %s: %w", path, err)
	}
	if session.Token == "" {
		return nil, fmt.Errorf("session file %s has no token", path)
	}
	return &session, nil
}

// SaveSessionTo writes session to path with mode 0600, creating the
// directory with mode 0700.
func SaveSessionTo(session *Session, path string) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0o700); err != nil {
		return fmt.Errorf("creating session directory %s: %w", directory, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing session file %s: %w", path, err)
	}
	return nil
}

// RemoveSession deletes the session file. A missing file is not an
// error.
func RemoveSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file %s: %w", path, err)
	}
	return nil
}

// ExpiresAt returns the token's expiry. The token is parsed without
// verifying its signature; only the service can do that. ok is false
// for tokens that are not JWTs or carry no exp claim.
func (session *Session) ExpiresAt() (expiry time.Time, ok bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(session.Token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// CheckExpiry returns ErrSessionExpired when the token's exp claim is
// at or before now. Opaque tokens are left for the service to judge.
func (session *Session) CheckExpiry(now time.Time) error {
	expiry, ok := session.ExpiresAt()
	if ok && !now.Before(expiry) {
		return fmt.Errorf("%w at %s (run \"desk login\" again)", ErrSessionExpired, expiry.Format(time.RFC3339))
	}
	return nil
}
