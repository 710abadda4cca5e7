// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/helpdesk/lib/deskstore"
	"github.com/bureau-foundation/helpdesk/lib/schema/desk"
)

func TestDetailInitFetchesEvenWhenCached(t *testing.T) {
	fake := newFakeDesk()
	harness := newDetailHarness(t, fake, "t1", testOptions())
	harness.load(t)

	// A second view for the same ticket over the same stores fetches
	// again.
	second := NewDetailView("t1", harness.tickets, harness.notes, harness.notifier, harness.navigator, testOptions())
	second.Init()
	if !harness.tickets.Status().IsLoading() || !harness.notes.Status().IsLoading() {
		t.Errorf("ticket=%s notes=%s, want both loading", harness.tickets.Status(), harness.notes.Status())
	}
}

func TestDetailLoadingAndRender(t *testing.T) {
	fake := newFakeDesk()
	fake.notes["t1"] = []desk.Note{
		{ID: "n1", TicketID: "t1", Text: "Have you tried restarting?", IsStaff: true, CreatedAt: testCreatedAt},
	}
	harness := newDetailHarness(t, fake, "t1", testOptions())

	messages := withoutTicks(run(t, harness.view.Init()))
	if !harness.view.Loading() {
		t.Fatal("view not loading before results arrive")
	}
	if !strings.Contains(ansi.Strip(harness.view.View(80, 30)), "Loading...") {
		t.Error("loading view has no loading indicator")
	}
	harness.deliver(messages...)

	if harness.view.Loading() {
		t.Fatal("view still loading after both results")
	}
	view := ansi.Strip(harness.view.View(100, 40))
	for _, want := range []string{"Ticket ID: t1", "Date Submitted: 3/14/2026", "Product: iPad", "Screen flickers", "Note from Staff", "1 hour ago", "restarting"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestDetailAffordancesFollowStatus(t *testing.T) {
	tests := []struct {
		ticketID string
		status   desk.Status
		want     bool
	}{
		{"t1", desk.StatusOpen, true},
		{"t2", desk.StatusNew, true},
		{"t3", desk.StatusClosed, false},
	}
	for _, test := range tests {
		t.Run(string(test.status), func(t *testing.T) {
			harness := newDetailHarness(t, newFakeDesk(), test.ticketID, testOptions())
			harness.load(t)

			view := ansi.Strip(harness.view.View(100, 40))
			if got := strings.Contains(view, addNoteLabel); got != test.want {
				t.Errorf("Add Note present = %v, want %v", got, test.want)
			}
			if got := strings.Contains(view, closeTicketLabel); got != test.want {
				t.Errorf("Close Ticket present = %v, want %v", got, test.want)
			}
			if harness.view.CanModify() != test.want {
				t.Errorf("CanModify() = %v, want %v", harness.view.CanModify(), test.want)
			}
		})
	}
}

func TestDetailClosedTicketIgnoresActionKeys(t *testing.T) {
	fake := newFakeDesk()
	harness := newDetailHarness(t, fake, "t3", testOptions())
	harness.load(t)

	harness.view.Update(runes("n"))
	harness.view.Update(runes("c"))

	if harness.view.Dialog().IsOpen() {
		t.Error("note dialog opened on a closed ticket")
	}
	if len(fake.closes) != 0 || len(harness.navigator.paths) != 0 {
		t.Errorf("closes=%v navigation=%v, want none", fake.closes, harness.navigator.paths)
	}
}

func TestDetailFetchFailureNotifiesOncePerAttempt(t *testing.T) {
	fake := newFakeDesk()
	fake.getErr = errUnavailable
	harness := newDetailHarness(t, fake, "t1", testOptions())
	harness.load(t)

	if harness.notifier.count(NotifyError) != 1 {
		t.Fatalf("error notifications = %+v, want 1", harness.notifier.notifications)
	}
	if harness.notifier.notifications[0].message != errUnavailable.Error() {
		t.Errorf("message = %q", harness.notifier.notifications[0].message)
	}
	view := ansi.Strip(harness.view.View(80, 30))
	if !strings.Contains(view, SomethingWentWrong) {
		t.Errorf("inline error missing:\n%s", view)
	}

	// Refreshing fails again: one more notification.
	harness.deliver(withoutTicks(run(t, harness.view.Update(runes("r"))))...)
	if harness.notifier.count(NotifyError) != 2 {
		t.Errorf("error notifications = %d after retry, want 2", harness.notifier.count(NotifyError))
	}
}

func TestDetailStaleFailureIsSilent(t *testing.T) {
	fake := newFakeDesk()
	harness := newDetailHarness(t, fake, "t1", testOptions())

	stale := withoutTicks(run(t, harness.view.Init()))
	current := withoutTicks(run(t, harness.view.Update(runes("r"))))
	harness.deliver(current...)

	// A failure answering the superseded fetch arrives last.
	for _, message := range stale {
		if fetched, ok := message.(deskstore.TicketFetchedMsg); ok {
			fetched.Err = errUnavailable
			harness.deliver(fetched)
		}
	}

	if len(harness.notifier.notifications) != 0 {
		t.Errorf("stale failure notified: %+v", harness.notifier.notifications)
	}
	if ticket, ok := harness.tickets.Ticket(); !ok || ticket.ID != "t1" {
		t.Errorf("ticket = %+v, %v", ticket, ok)
	}
}

func TestDetailSubmitNoteEndToEnd(t *testing.T) {
	fake := newFakeDesk()
	harness := newDetailHarness(t, fake, "t1", testOptions())
	harness.load(t)
	if len(harness.notes.Notes()) != 0 {
		t.Fatalf("t1 starts with %d notes", len(harness.notes.Notes()))
	}

	harness.view.Update(runes("n"))
	if !harness.view.Dialog().IsOpen() {
		t.Fatal("n did not open the note dialog")
	}
	harness.view.Update(runes("Hello"))
	if harness.view.Dialog().Value() != "Hello" {
		t.Fatalf("buffer = %q", harness.view.Dialog().Value())
	}

	command := harness.view.Update(tea.KeyMsg{Type: tea.KeyCtrlD})

	// Local effect: immediate, before the service has been called.
	if harness.view.Dialog().IsOpen() {
		t.Error("dialog still open after submit")
	}
	if harness.view.Dialog().Value() != "" {
		t.Errorf("buffer = %q after submit, want empty", harness.view.Dialog().Value())
	}
	if fake.creates != 0 {
		t.Error("note created before the command ran")
	}

	// Remote effect.
	harness.deliver(run(t, command)...)
	notes := harness.notes.Notes()
	if len(notes) != 1 || notes[0].Text != "Hello" {
		t.Fatalf("notes = %+v, want one note \"Hello\"", notes)
	}
	if !strings.Contains(ansi.Strip(harness.view.View(100, 40)), "Hello") {
		t.Error("created note not rendered")
	}
}

func TestDetailNoteSentAsTyped(t *testing.T) {
	fake := newFakeDesk()
	harness := newDetailHarness(t, fake, "t1", testOptions())
	harness.load(t)

	harness.view.Update(runes("n"))
	harness.view.Update(runes("    code"))
	harness.deliver(run(t, harness.view.Update(tea.KeyMsg{Type: tea.KeyCtrlD}))...)

	notes := harness.notes.Notes()
	if len(notes) != 1 || notes[0].Text != "    code" {
		t.Errorf("notes = %+v, want one note with the indentation kept", notes)
	}
}

func TestDetailBlankNoteIsNotSent(t *testing.T) {
	fake := newFakeDesk()
	harness := newDetailHarness(t, fake, "t1", testOptions())
	harness.load(t)

	harness.view.Update(runes("n"))
	harness.view.Update(runes("   "))
	if command := harness.view.Update(tea.KeyMsg{Type: tea.KeyCtrlD}); command != nil {
		t.Error("blank note produced a command")
	}
	if harness.view.Dialog().IsOpen() {
		t.Error("dialog still open")
	}
}

func TestDetailEscapeCancelsDialogKeepingBuffer(t *testing.T) {
	harness := newDetailHarness(t, newFakeDesk(), "t1", testOptions())
	harness.load(t)

	harness.view.Update(runes("n"))
	harness.view.Update(runes("draft"))
	harness.view.Update(tea.KeyMsg{Type: tea.KeyEscape})

	if harness.view.Dialog().IsOpen() {
		t.Error("Esc did not close the dialog")
	}
	if len(harness.navigator.paths) != 0 {
		t.Errorf("Esc in the dialog navigated: %v", harness.navigator.paths)
	}
	if harness.view.Dialog().Value() != "draft" {
		t.Errorf("buffer = %q, want draft kept", harness.view.Dialog().Value())
	}
}

func TestDetailCloseEndToEnd(t *testing.T) {
	for _, closeErr := range []error{nil, errUnavailable} {
		name := "succeeds"
		if closeErr != nil {
			name = "fails"
		}
		t.Run(name, func(t *testing.T) {
			fake := newFakeDesk()
			fake.closeErr = closeErr
			harness := newDetailHarness(t, fake, "t1", testOptions())
			harness.load(t)

			command := harness.view.Update(runes("c"))

			want := notification{kind: NotifySuccess, message: TicketClosed}
			if len(harness.notifier.notifications) != 1 || harness.notifier.notifications[0] != want {
				t.Errorf("notifications = %+v, want [%+v]", harness.notifier.notifications, want)
			}
			if harness.navigator.last() != RouteTickets {
				t.Errorf("navigated to %q, want %s", harness.navigator.last(), RouteTickets)
			}
			if len(fake.closes) != 0 {
				t.Error("close sent before the command ran")
			}

			harness.deliver(run(t, command)...)
			if len(fake.closes) != 1 {
				t.Errorf("closes = %v, want [t1]", fake.closes)
			}
			ticket, _ := harness.tickets.Ticket()
			if closed := ticket.IsClosed(); closed != (closeErr == nil) {
				t.Errorf("cached ticket closed = %v", closed)
			}
			// Local effects do not change with the outcome.
			if harness.navigator.last() != RouteTickets || harness.notifier.count(NotifySuccess) != 1 {
				t.Error("outcome changed the local effects")
			}
		})
	}
}

func TestDetailConfirmCloseDefersNotification(t *testing.T) {
	options := testOptions()
	options.ConfirmClose = true
	harness := newDetailHarness(t, newFakeDesk(), "t1", options)
	harness.load(t)

	harness.view.Update(runes("c"))

	if len(harness.notifier.notifications) != 0 {
		t.Errorf("notified before confirmation: %+v", harness.notifier.notifications)
	}
	if harness.navigator.last() != RouteTickets {
		t.Errorf("navigated to %q, want %s", harness.navigator.last(), RouteTickets)
	}
}

func TestDetailBackKeys(t *testing.T) {
	for _, message := range []tea.KeyMsg{{Type: tea.KeyEscape}, {Type: tea.KeyBackspace}} {
		harness := newDetailHarness(t, newFakeDesk(), "t1", testOptions())
		harness.load(t)
		harness.view.Update(message)
		if harness.navigator.last() != RouteTickets {
			t.Errorf("%s navigated to %q, want %s", message, harness.navigator.last(), RouteTickets)
		}
	}
}

func TestDetailScrollClamps(t *testing.T) {
	fake := newFakeDesk()
	for index := range 30 {
		fake.notes["t1"] = append(fake.notes["t1"], desk.Note{ID: string(rune('a' + index)), TicketID: "t1", Text: "note"})
	}
	harness := newDetailHarness(t, fake, "t1", testOptions())
	harness.view.Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	harness.load(t)

	harness.view.Update(tea.KeyMsg{Type: tea.KeyEnd})
	end := harness.view.scroll
	if end == 0 {
		t.Fatal("End did not scroll a long ticket")
	}
	harness.view.Update(runes("j"))
	if harness.view.scroll != end {
		t.Errorf("scrolled past the end: %d > %d", harness.view.scroll, end)
	}
	harness.view.Update(runes("g"))
	if harness.view.scroll != 0 {
		t.Errorf("Home left scroll at %d", harness.view.scroll)
	}
}
