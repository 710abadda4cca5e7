// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskui

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/helpdesk/lib/deskapi"
	"github.com/bureau-foundation/helpdesk/lib/deskstore"
	"github.com/bureau-foundation/helpdesk/lib/schema/desk"
	"github.com/bureau-foundation/helpdesk/lib/tui"
)

// Screen is one route of the app. Screens are mutated in place and
// render at the size they are given.
type Screen interface {
	Init() tea.Cmd
	Update(message tea.Msg) tea.Cmd
	View(width, height int) string
}

const maxToasts = 4

// AppConfig wires the app to its collaborators.
type AppConfig struct {
	Auth    Authenticator
	Tickets *deskstore.TicketStore
	Notes   *deskstore.NoteStore
	Options ViewOptions

	// ToastDuration is how long a notification stays visible.
	// Zero means four seconds.
	ToastDuration time.Duration

	// Authenticated starts the app on /tickets instead of /login.
	Authenticated bool

	// OnSession is called on the program goroutine after a successful
	// login or registration, before navigating to the ticket list.
	// It typically installs the token and saves the session file.
	OnSession func(desk.Session) error

	// Logger receives route changes at debug level. Nil discards.
	Logger *slog.Logger
}

type toastExpiredMsg struct{ id uint64 }

// App is the composition root of the TUI: it owns the stores, the
// notification surface and the router, and implements [Notifier] and
// [Navigator] for its screens. Store result messages are applied to
// the stores before the active screen sees them.
type App struct {
	config  AppConfig
	tickets *deskstore.TicketStore
	notes   *deskstore.NoteStore
	logger  *slog.Logger

	authenticated bool
	route         string
	screen        Screen

	pendingRoute string
	navigating   bool
	pending      []tea.Cmd

	toasts    []tui.Toast
	nextToast uint64
	// after schedules a message; tea.Tick outside tests.
	after func(time.Duration, tea.Msg) tea.Cmd

	width  int
	height int
}

// NewApp creates the app. Nothing is fetched until Init.
func NewApp(config AppConfig) *App {
	if config.ToastDuration <= 0 {
		config.ToastDuration = 4 * time.Second
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &App{
		config:        config,
		tickets:       config.Tickets,
		notes:         config.Notes,
		logger:        logger,
		authenticated: config.Authenticated,
		after: func(delay time.Duration, message tea.Msg) tea.Cmd {
			return tea.Tick(delay, func(time.Time) tea.Msg { return message })
		},
		width:  80,
		height: 24,
	}
}

// Notify adds a toast. It implements [Notifier].
func (app *App) Notify(kind NotificationKind, message string) {
	app.nextToast++
	toastKind := tui.ToastSuccess
	if kind == NotifyError {
		toastKind = tui.ToastError
	}
	app.toasts = append(app.toasts, tui.Toast{ID: app.nextToast, Kind: toastKind, Message: message})
	if len(app.toasts) > maxToasts {
		app.toasts = slices.Delete(app.toasts, 0, len(app.toasts)-maxToasts)
	}
	if expire := app.after(app.config.ToastDuration, toastExpiredMsg{id: app.nextToast}); expire != nil {
		app.pending = append(app.pending, expire)
	}
}

// NavigateTo requests a route change. It implements [Navigator]. The
// change is applied once the current Update returns to the app; the
// last request wins.
func (app *App) NavigateTo(path string) {
	app.pendingRoute = path
	app.navigating = true
}

// Route is the active route path.
func (app *App) Route() string { return app.route }

// Screen is the active screen.
func (app *App) Screen() Screen { return app.screen }

// Toasts returns the visible notifications, oldest first.
func (app *App) Toasts() []tui.Toast { return slices.Clone(app.toasts) }

func (app *App) Init() tea.Cmd {
	initial := RouteLogin
	if app.authenticated {
		initial = RouteTickets
	}
	command := app.activate(initial)
	return tea.Batch(command, app.settle())
}

func (app *App) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		if message.Type == tea.KeyCtrlC {
			return app, tea.Quit
		}

	case tea.WindowSizeMsg:
		app.width, app.height = message.Width, message.Height

	case toastExpiredMsg:
		app.toasts = slices.DeleteFunc(app.toasts, func(toast tui.Toast) bool { return toast.ID == message.id })
		return app, nil

	case LogRecordMsg:
		app.Notify(NotifyError, message.Summary)
		return app, app.settle()

	case AuthResultMsg:
		app.handleAuth(message)

	case deskstore.TicketFetchedMsg, deskstore.TicketsListedMsg:
		app.tickets.Update(message)

	case deskstore.TicketClosedMsg:
		app.tickets.Update(message)
		app.handleClosed(message)

	case deskstore.NotesFetchedMsg:
		app.notes.Update(message)

	case deskstore.NoteCreatedMsg:
		app.notes.Update(message)
		if message.Err != nil {
			app.Notify(NotifyError, "Could not add note: "+deskapi.Message(message.Err))
		}
	}

	var command tea.Cmd
	if app.screen != nil {
		command = app.screen.Update(message)
	}
	return app, tea.Batch(command, app.settle())
}

func (app *App) handleAuth(message AuthResultMsg) {
	if message.Err != nil {
		app.Notify(NotifyError, deskapi.Message(message.Err))
		return
	}
	if app.config.OnSession != nil {
		if err := app.config.OnSession(message.Session); err != nil {
			app.logger.Warn("storing session failed", "error", err)
			app.Notify(NotifyError, "Could not save session: "+err.Error())
		}
	}
	app.authenticated = true
	app.Notify(NotifySuccess, "Logged in as "+message.Session.Name)
	app.NavigateTo(RouteTickets)
}

// handleClosed reports the outcome of a close. The view has already
// navigated away, so this runs whatever route is active.
func (app *App) handleClosed(message deskstore.TicketClosedMsg) {
	if message.Err != nil {
		app.Notify(NotifyError, "Could not close ticket: "+deskapi.Message(message.Err))
		return
	}
	if app.config.Options.ConfirmClose {
		app.Notify(NotifySuccess, TicketClosed)
	}
}

// settle applies pending navigation and collects the commands queued
// by Notify and by the screens it activates.
func (app *App) settle() tea.Cmd {
	var commands []tea.Cmd
	for app.navigating {
		app.navigating = false
		commands = append(commands, app.activate(app.pendingRoute))
	}
	commands = append(commands, app.pending...)
	app.pending = nil
	return tea.Batch(commands...)
}

// activate replaces the active screen. Leaving a ticket resets both
// stores so the next ticket starts from a clean state.
func (app *App) activate(path string) tea.Cmd {
	if strings.HasPrefix(app.route, routeTicket) {
		app.tickets.Reset()
		app.notes.Reset()
	}

	options := app.config.Options
	var screen Screen
	switch {
	case path == RouteLogin:
		screen = NewLoginScreen(app.config.Auth, app, options.Theme, options.Keys)
	case path == RouteRegister:
		screen = NewRegisterScreen(app.config.Auth, app, app, options.Theme, options.Keys)
	case !app.authenticated && isPrivate(path):
		app.logger.Debug("route requires login", "route", path)
		path = RouteLogin
		screen = NewLoginScreen(app.config.Auth, app, options.Theme, options.Keys)
	case path == RouteTickets:
		screen = NewListView(app.tickets, app, app, options)
	case ticketIDFromRoute(path) != "":
		screen = NewDetailView(ticketIDFromRoute(path), app.tickets, app.notes, app, app, options)
	default:
		app.Notify(NotifyError, "Page not found: "+path)
		path = RouteTickets
		screen = NewListView(app.tickets, app, app, options)
	}

	app.logger.Debug("route changed", "from", app.route, "to", path)
	app.route = path
	app.screen = screen
	size := screen.Update(tea.WindowSizeMsg{Width: app.width, Height: app.height})
	return tea.Batch(screen.Init(), size)
}

func isPrivate(path string) bool {
	return path == RouteTickets || strings.HasPrefix(path, routeTicket)
}

func ticketIDFromRoute(path string) string {
	ticketID, ok := strings.CutPrefix(path, routeTicket)
	if !ok || ticketID == "" || strings.Contains(ticketID, "/") {
		return ""
	}
	return ticketID
}

func (app *App) View() string {
	if app.screen == nil {
		return ""
	}
	view := app.screen.View(app.width, app.height)
	return tui.RenderToasts(view, app.toasts, app.config.Options.Theme, app.width)
}
