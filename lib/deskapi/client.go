// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/helpdesk/lib/codec"
	"github.com/bureau-foundation/helpdesk/lib/schema/desk"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the service root, e.g. "http://localhost:5000". The
	// /api prefix is added by the client.
	BaseURL string
	// Wire encodes request bodies. If nil, codec.JSON is used.
	Wire codec.Codec
	// Timeout bounds each request. Zero means no per-request timeout
	// beyond the caller's context.
	Timeout time.Duration
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client talks to the ticket service. Safe for concurrent use.
type Client struct {
	baseURL    string
	wire       codec.Codec
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
	token      atomic.Pointer[string]
}

// NewClient creates a client. The client starts without a token; call
// SetToken after loading a saved session or logging in.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, errors.New("deskapi: BaseURL is required")
	}
	parsed, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("deskapi: invalid BaseURL %q: %w", config.BaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("deskapi: BaseURL %q must be absolute", config.BaseURL)
	}

	wire := config.Wire
	if wire == nil {
		wire = codec.JSON
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/") + "/api",
		wire:       wire,
		timeout:    config.Timeout,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// SetToken replaces the bearer token used by subsequent requests.
// An empty token sends requests unauthenticated.
func (c *Client) SetToken(token string) {
	c.token.Store(&token)
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	if token := c.token.Load(); token != nil {
		return *token
	}
	return ""
}

// Login exchanges credentials for a session. The session token is not
// installed automatically.
func (c *Client) Login(ctx context.Context, credentials desk.Credentials) (desk.Session, error) {
	var session desk.Session
	if err := c.do(ctx, http.MethodPost, "/users/login", credentials, &session); err != nil {
		return desk.Session{}, fmt.Errorf("logging in: %w", err)
	}
	c.logger.Info("logged in", "user", session.Email)
	return session, nil
}

// Register creates an account and returns its first session.
func (c *Client) Register(ctx context.Context, registration desk.Registration) (desk.Session, error) {
	var session desk.Session
	if err := c.do(ctx, http.MethodPost, "/users", registration, &session); err != nil {
		return desk.Session{}, fmt.Errorf("registering: %w", err)
	}
	c.logger.Info("registered", "user", session.Email)
	return session, nil
}

// ListTickets returns the authenticated user's tickets.
func (c *Client) ListTickets(ctx context.Context) ([]desk.Ticket, error) {
	var tickets []desk.Ticket
	if err := c.do(ctx, http.MethodGet, "/tickets", nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// GetTicket returns one ticket.
func (c *Client) GetTicket(ctx context.Context, ticketID string) (desk.Ticket, error) {
	var ticket desk.Ticket
	if err := c.do(ctx, http.MethodGet, ticketPath(ticketID), nil, &ticket); err != nil {
		return desk.Ticket{}, err
	}
	return ticket, nil
}

// CloseTicket sets a ticket's status to closed and returns the
// updated ticket.
func (c *Client) CloseTicket(ctx context.Context, ticketID string) (desk.Ticket, error) {
	body := struct {
		Status desk.Status `json:"status"`
	}{Status: desk.StatusClosed}

	var ticket desk.Ticket
	if err := c.do(ctx, http.MethodPut, ticketPath(ticketID), body, &ticket); err != nil {
		return desk.Ticket{}, err
	}
	return ticket, nil
}

// GetNotes returns a ticket's notes in server order.
func (c *Client) GetNotes(ctx context.Context, ticketID string) ([]desk.Note, error) {
	if ticketID == "" {
		return nil, ErrMissingTicket
	}
	var notes []desk.Note
	if err := c.do(ctx, http.MethodGet, ticketPath(ticketID)+"/notes", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// CreateNote adds a note to a ticket and returns the stored note.
func (c *Client) CreateNote(ctx context.Context, text, ticketID string) (desk.Note, error) {
	if ticketID == "" {
		return desk.Note{}, ErrMissingTicket
	}
	body := struct {
		Text string `json:"text"`
	}{Text: text}

	var note desk.Note
	if err := c.do(ctx, http.MethodPost, ticketPath(ticketID)+"/notes", body, &note); err != nil {
		return desk.Note{}, err
	}
	return note, nil
}

func ticketPath(ticketID string) string {
	return "/tickets/" + url.PathEscape(ticketID)
}

// do sends one request. requestBody and responseBody may be nil.
func (c *Client) do(ctx context.Context, method, path string, requestBody, responseBody any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := c.wire.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("deskapi: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("deskapi: creating request: %w", err)
	}
	request.Header.Set("Accept", c.wire.ContentType())
	if requestBody != nil {
		request.Header.Set("Content-Type", c.wire.ContentType())
	}
	if token := c.Token(); token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("deskapi: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	data, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("deskapi: reading response body: %w", err)
	}
	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"bytes", len(data),
		"duration", time.Since(started),
	)

	responseCodec := codec.ByContentType(response.Header.Get("Content-Type"), c.wire)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		var apiError Error
		if len(data) > 0 {
			// An undecodable error body still yields a status-based message.
			_ = responseCodec.Unmarshal(data, &apiError)
		}
		return errorFromStatus(response.StatusCode, apiError.Message)
	}

	if responseBody == nil || len(data) == 0 {
		return nil
	}
	if err := responseCodec.Unmarshal(data, responseBody); err != nil {
		if responseCodec == codec.CBOR {
			if diagnostic, diagErr := codec.Diagnose(data); diagErr == nil {
				c.logger.Debug("undecodable cbor response", "path", path, "body", diagnostic)
			}
		}
		return fmt.Errorf("deskapi: decoding %s %s response: %w", method, path, err)
	}
	return nil
}
