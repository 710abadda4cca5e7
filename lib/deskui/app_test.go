// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskui

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/helpdesk/lib/deskapi"
	"github.com/bureau-foundation/helpdesk/lib/deskstore"
	"github.com/bureau-foundation/helpdesk/lib/schema/desk"
	"github.com/bureau-foundation/helpdesk/lib/tui"
)

type appHarness struct {
	fake     *fakeDesk
	app      *App
	sessions []desk.Session
}

func newAppHarness(t *testing.T, fake *fakeDesk, authenticated bool, options ViewOptions) *appHarness {
	t.Helper()
	harness := &appHarness{fake: fake}
	harness.app = NewApp(AppConfig{
		Auth:          fake,
		Tickets:       deskstore.NewTicketStore(fake, nil),
		Notes:         deskstore.NewNoteStore(fake, nil),
		Options:       options,
		Authenticated: authenticated,
		OnSession: func(session desk.Session) error {
			harness.sessions = append(harness.sessions, session)
			return nil
		},
	})
	// Toast expiry is exercised explicitly through toastExpiredMsg.
	harness.app.after = func(time.Duration, tea.Msg) tea.Cmd { return nil }
	return harness
}

// send delivers message and then every message its command produces,
// breadth first, skipping spinner ticks.
func (harness *appHarness) send(t *testing.T, message tea.Msg) {
	t.Helper()
	queue := []tea.Msg{message}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		_, command := harness.app.Update(next)
		queue = append(queue, withoutTicks(run(t, command))...)
	}
}

func (harness *appHarness) start(t *testing.T) {
	t.Helper()
	for _, message := range withoutTicks(run(t, harness.app.Init())) {
		harness.send(t, message)
	}
}

func toastMessages(app *App) []string {
	var messages []string
	for _, toast := range app.Toasts() {
		messages = append(messages, toast.Message)
	}
	return messages
}

func hasToast(app *App, kind tui.ToastKind, message string) bool {
	for _, toast := range app.Toasts() {
		if toast.Kind == kind && toast.Message == message {
			return true
		}
	}
	return false
}

func TestAppStartsOnLoginWithoutSession(t *testing.T) {
	harness := newAppHarness(t, newFakeDesk(), false, testOptions())
	harness.app.Init()
	if harness.app.Route() != RouteLogin {
		t.Errorf("route = %q, want %s", harness.app.Route(), RouteLogin)
	}
	if _, ok := harness.app.Screen().(*LoginScreen); !ok {
		t.Errorf("screen = %T, want *LoginScreen", harness.app.Screen())
	}
}

func TestAppPrivateRoutesRequireLogin(t *testing.T) {
	harness := newAppHarness(t, newFakeDesk(), false, testOptions())
	harness.app.Init()
	harness.app.activate(TicketRoute("t1"))
	if harness.app.Route() != RouteLogin {
		t.Errorf("route = %q, want %s", harness.app.Route(), RouteLogin)
	}
}

func TestAppLoginSuccess(t *testing.T) {
	harness := newAppHarness(t, newFakeDesk(), false, testOptions())
	harness.app.Init()

	harness.send(t, AuthResultMsg{Session: desk.Session{Name: "Ada", Token: "token"}})

	if len(harness.sessions) != 1 || harness.sessions[0].Token != "token" {
		t.Errorf("sessions = %+v", harness.sessions)
	}
	if !hasToast(harness.app, tui.ToastSuccess, "Logged in as Ada") {
		t.Errorf("toasts = %v", toastMessages(harness.app))
	}
	if harness.app.Route() != RouteTickets {
		t.Errorf("route = %q, want %s", harness.app.Route(), RouteTickets)
	}
	list := harness.app.Screen().(*ListView)
	if len(list.Visible()) != 3 {
		t.Errorf("list shows %d tickets, want 3", len(list.Visible()))
	}
}

func TestAppLoginFailureStaysOnLogin(t *testing.T) {
	harness := newAppHarness(t, newFakeDesk(), false, testOptions())
	harness.app.Init()

	harness.send(t, AuthResultMsg{Err: &deskapi.Error{StatusCode: 401, Message: "Invalid credentials"}})

	if harness.app.Route() != RouteLogin || len(harness.sessions) != 0 {
		t.Errorf("route=%q sessions=%d", harness.app.Route(), len(harness.sessions))
	}
	if !hasToast(harness.app, tui.ToastError, "Invalid credentials") {
		t.Errorf("toasts = %v", toastMessages(harness.app))
	}
}

func TestAppUnknownRouteFallsBack(t *testing.T) {
	harness := newAppHarness(t, newFakeDesk(), true, testOptions())
	harness.app.Init()
	harness.app.activate("/nowhere")

	if harness.app.Route() != RouteTickets {
		t.Errorf("route = %q, want %s", harness.app.Route(), RouteTickets)
	}
	if !hasToast(harness.app, tui.ToastError, "Page not found: /nowhere") {
		t.Errorf("toasts = %v", toastMessages(harness.app))
	}
}

// openTicket starts an authenticated app and opens ticketID from the
// list.
func openTicket(t *testing.T, harness *appHarness, ticketID string) {
	t.Helper()
	harness.start(t)
	list := harness.app.Screen().(*ListView)
	for {
		selected, ok := list.Selected()
		if !ok {
			t.Fatalf("ticket %s not in the list", ticketID)
		}
		if selected.ID == ticketID {
			break
		}
		harness.send(t, runes("j"))
	}
	harness.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	if harness.app.Route() != TicketRoute(ticketID) {
		t.Fatalf("route = %q, want %s", harness.app.Route(), TicketRoute(ticketID))
	}
}

func TestAppOpenTicketFromList(t *testing.T) {
	harness := newAppHarness(t, newFakeDesk(), true, testOptions())
	openTicket(t, harness, "t2")

	detail := harness.app.Screen().(*DetailView)
	if detail.Loading() {
		t.Error("detail still loading after results were delivered")
	}
	if !strings.Contains(ansi.Strip(harness.app.View()), "Macbook Pro") {
		t.Errorf("detail view does not show the ticket:\n%s", harness.app.View())
	}
}

func TestAppCloseFailureIsSurfaced(t *testing.T) {
	fake := newFakeDesk()
	fake.closeErr = errUnavailable
	harness := newAppHarness(t, fake, true, testOptions())
	openTicket(t, harness, "t1")

	harness.send(t, runes("c"))

	if harness.app.Route() != RouteTickets {
		t.Errorf("route = %q, want %s", harness.app.Route(), RouteTickets)
	}
	if !hasToast(harness.app, tui.ToastSuccess, TicketClosed) {
		t.Errorf("optimistic toast missing: %v", toastMessages(harness.app))
	}
	if !hasToast(harness.app, tui.ToastError, "Could not close ticket: service unavailable") {
		t.Errorf("close failure not surfaced: %v", toastMessages(harness.app))
	}
}

func TestAppConfirmCloseNotifiesAfterService(t *testing.T) {
	options := testOptions()
	options.ConfirmClose = true
	harness := newAppHarness(t, newFakeDesk(), true, options)
	openTicket(t, harness, "t1")

	_, command := harness.app.Update(runes("c"))
	if hasToast(harness.app, tui.ToastSuccess, TicketClosed) {
		t.Fatal("toast posted before the service confirmed")
	}
	for _, message := range withoutTicks(run(t, command)) {
		harness.send(t, message)
	}
	if !hasToast(harness.app, tui.ToastSuccess, TicketClosed) {
		t.Errorf("toasts = %v, want %q", toastMessages(harness.app), TicketClosed)
	}

	// The list reflects the close even though its fetch may predate it.
	list := harness.app.Screen().(*ListView)
	for _, ticket := range list.Visible() {
		if ticket.ID == "t1" && !ticket.IsClosed() {
			t.Error("t1 still open in the list")
		}
	}
}

func TestAppLeavingDetailResetsStores(t *testing.T) {
	harness := newAppHarness(t, newFakeDesk(), true, testOptions())
	openTicket(t, harness, "t1")

	harness.send(t, tea.KeyMsg{Type: tea.KeyEscape})

	if harness.app.Route() != RouteTickets {
		t.Fatalf("route = %q", harness.app.Route())
	}
	if _, ok := harness.app.tickets.Ticket(); ok {
		t.Error("ticket store kept the ticket after leaving the detail view")
	}
	if harness.app.notes.TicketID() != "" || len(harness.app.notes.Notes()) != 0 {
		t.Error("note store kept notes after leaving the detail view")
	}
}

func TestAppNoteFailureIsSurfaced(t *testing.T) {
	fake := newFakeDesk()
	fake.createErr = errUnavailable
	harness := newAppHarness(t, fake, true, testOptions())
	openTicket(t, harness, "t1")

	harness.app.Update(runes("n"))
	harness.app.Update(runes("Hello"))
	harness.send(t, tea.KeyMsg{Type: tea.KeyCtrlD})

	if !hasToast(harness.app, tui.ToastError, "Could not add note: service unavailable") {
		t.Errorf("toasts = %v", toastMessages(harness.app))
	}
}

func TestAppToastsExpireAndAreCapped(t *testing.T) {
	harness := newAppHarness(t, newFakeDesk(), true, testOptions())
	var scheduled []tea.Msg
	harness.app.after = func(_ time.Duration, message tea.Msg) tea.Cmd {
		scheduled = append(scheduled, message)
		return nil
	}

	for index := range maxToasts + 2 {
		harness.app.Notify(NotifySuccess, strings.Repeat("x", index+1))
	}
	if got := len(harness.app.Toasts()); got != maxToasts {
		t.Fatalf("toasts = %d, want %d", got, maxToasts)
	}
	if harness.app.Toasts()[0].Message != "xxx" {
		t.Errorf("oldest kept toast = %q, want the third", harness.app.Toasts()[0].Message)
	}

	harness.app.Update(scheduled[len(scheduled)-1])
	if got := len(harness.app.Toasts()); got != maxToasts-1 {
		t.Errorf("toasts = %d after expiry, want %d", got, maxToasts-1)
	}
}

func TestAppLogRecordsBecomeToasts(t *testing.T) {
	harness := newAppHarness(t, newFakeDesk(), true, testOptions())
	harness.app.Init()

	harness.app.Update(LogRecordMsg{Summary: "saving session failed (error=disk full)", Level: slog.LevelError})

	if !hasToast(harness.app, tui.ToastError, "saving session failed (error=disk full)") {
		t.Errorf("toasts = %v", toastMessages(harness.app))
	}
}

func TestAppCtrlCQuits(t *testing.T) {
	harness := newAppHarness(t, newFakeDesk(), false, testOptions())
	harness.app.Init()

	_, command := harness.app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if command == nil {
		t.Fatal("Ctrl+C returned no command")
	}
	if _, ok := command().(tea.QuitMsg); !ok {
		t.Error("Ctrl+C did not quit")
	}
}
