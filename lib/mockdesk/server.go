// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mockdesk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/bureau-foundation/helpdesk/lib/schema/desk"
)

// tokenLifetime matches the production service's 30 day tokens.
const tokenLifetime = 30 * 24 * time.Hour

// Config configures a Server.
type Config struct {
	// Secret signs bearer tokens. Required.
	Secret []byte
	// Now is the clock used for timestamps and token expiry. If nil,
	// time.Now is used.
	Now func() time.Time
	// BcryptCost is the password hashing cost. Zero means
	// bcrypt.DefaultCost; tests pass bcrypt.MinCost.
	BcryptCost int
	// Logger is used for request logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Server is the in-memory ticket service.
type Server struct {
	secret []byte
	now    func() time.Time
	logger *slog.Logger
	store  *store

	failMu   sync.Mutex
	failures map[string]injectedFailure
}

type injectedFailure struct {
	status  int
	message string
}

// claims is the JWT payload: the user id, as in the production service.
type claims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

type contextKey struct{}

// New creates an empty Server.
func New(config Config) (*Server, error) {
	if len(config.Secret) == 0 {
		return nil, errors.New("mockdesk: Secret is required")
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}
	cost := config.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		secret:   config.Secret,
		now:      now,
		logger:   logger,
		store:    newStore(now, cost),
		failures: make(map[string]injectedFailure),
	}, nil
}

// Handler returns the HTTP handler serving the /api routes.
func (server *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(chimw.Recoverer)
	router.Use(server.logRequests)
	router.Use(server.injectFailures)

	router.Route("/api", func(api chi.Router) {
		api.Post("/users", server.handleRegister)
		api.Post("/users/login", server.handleLogin)

		api.Group(func(protected chi.Router) {
			protected.Use(server.requireAuth)
			protected.Get("/users/me", server.handleMe)
			protected.Get("/tickets", server.handleListTickets)
			protected.Post("/tickets", server.handleCreateTicket)
			protected.Get("/tickets/{ticketID}", server.handleGetTicket)
			protected.Put("/tickets/{ticketID}", server.handleUpdateTicket)
			protected.Get("/tickets/{ticketID}/notes", server.handleListNotes)
			protected.Post("/tickets/{ticketID}/notes", server.handleCreateNote)
		})
	})
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		server.fail(w, r, http.StatusNotFound, "Not Found")
	})
	return router
}

// AddUser creates an account and returns its id.
func (server *Server) AddUser(name, email, password string) (string, error) {
	created, err := server.store.addUser(name, email, password)
	if err != nil {
		return "", err
	}
	return created.id, nil
}

// AddTicket creates a ticket owned by userID.
func (server *Server) AddTicket(userID, product, description string, status desk.Status) desk.Ticket {
	return server.store.addTicket(userID, product, description, status)
}

// AddStaffNote attaches a note written by support staff.
func (server *Server) AddStaffNote(staffID, ticketID, text string) (desk.Note, error) {
	return server.store.addNote(staffID, ticketID, text, true)
}

// TokenFor issues a bearer token for userID.
func (server *Server) TokenFor(userID string) (string, error) {
	now := server.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		ID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	})
	return token.SignedString(server.secret)
}

// FailNext makes the next request matching method and path fail with
// status and message, without reaching the handler.
func (server *Server) FailNext(method, path string, status int, message string) {
	server.failMu.Lock()
	defer server.failMu.Unlock()
	server.failures[method+" "+path] = injectedFailure{status: status, message: message}
}

// Seed populates a demo account (demo@example.com / demo1234) with a
// few tickets in each state and returns the demo user id.
func (server *Server) Seed() (string, error) {
	userID, err := server.AddUser("Demo User", "demo@example.com", "demo1234")
	if err != nil {
		return "", fmt.Errorf("seeding demo user: %w", err)
	}
	staffID, err := server.AddUser("Support Staff", "staff@example.com", "staff1234")
	if err != nil {
		return "", fmt.Errorf("seeding staff user: %w", err)
	}

	server.AddTicket(userID, "iPhone", "The screen stays **black** after the latest update.", desk.StatusNew)
	open := server.AddTicket(userID, "MacBook Pro", "Battery drains overnight.\n\n- lid closed\n- no apps running", desk.StatusOpen)
	server.AddTicket(userID, "iPad", "Pencil does not pair.", desk.StatusClosed)

	if _, err := server.AddStaffNote(staffID, open.ID, "Could you run `pmset -g log` and attach the output?"); err != nil {
		return "", fmt.Errorf("seeding note: %w", err)
	}
	return userID, nil
}

func (server *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(wrapped, r)
		server.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.Status(),
			"duration", time.Since(started),
		)
	})
}

func (server *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		server.failMu.Lock()
		failure, ok := server.failures[key]
		delete(server.failures, key)
		server.failMu.Unlock()
		if ok {
			server.fail(w, r, failure.status, failure.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (server *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			server.fail(w, r, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		var parsed claims
		_, err := jwt.ParseWithClaims(tokenString, &parsed, func(*jwt.Token) (any, error) {
			return server.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(server.now))
		if err != nil {
			server.fail(w, r, http.StatusUnauthorized, "Not authorized")
			return
		}
		authenticated, ok := server.store.user(parsed.ID)
		if !ok {
			server.fail(w, r, http.StatusUnauthorized, "Not authorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, authenticated)))
	})
}

func currentUser(r *http.Request) *user {
	return r.Context().Value(contextKey{}).(*user)
}
