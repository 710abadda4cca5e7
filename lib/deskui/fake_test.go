// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/helpdesk/lib/deskapi"
	"github.com/bureau-foundation/helpdesk/lib/deskstore"
	"github.com/bureau-foundation/helpdesk/lib/schema/desk"
	"github.com/bureau-foundation/helpdesk/lib/tui"
)

var testCreatedAt = time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

// fakeDesk implements the ticket, note and identity services in
// memory. Error fields make the matching operation fail.
type fakeDesk struct {
	mu sync.Mutex

	tickets  map[string]desk.Ticket
	order    []string
	notes    map[string][]desk.Note
	nextNote int

	getErr    error
	notesErr  error
	closeErr  error
	createErr error
	loginErr  error

	closes        []string
	creates       int
	logins        []desk.Credentials
	registrations []desk.Registration
}

func newFakeDesk() *fakeDesk {
	fake := &fakeDesk{
		tickets: make(map[string]desk.Ticket),
		notes:   make(map[string][]desk.Note),
	}
	fake.put(desk.Ticket{ID: "t1", Product: "iPad", Description: "Screen flickers", Status: desk.StatusOpen, CreatedAt: testCreatedAt})
	fake.put(desk.Ticket{ID: "t2", Product: "Macbook Pro", Description: "Battery drains overnight", Status: desk.StatusNew, CreatedAt: testCreatedAt})
	fake.put(desk.Ticket{ID: "t3", Product: "iPhone", Description: "Cannot sync", Status: desk.StatusClosed, CreatedAt: testCreatedAt})
	return fake
}

func (fake *fakeDesk) put(ticket desk.Ticket) {
	if _, exists := fake.tickets[ticket.ID]; !exists {
		fake.order = append(fake.order, ticket.ID)
	}
	fake.tickets[ticket.ID] = ticket
}

func (fake *fakeDesk) GetTicket(_ context.Context, ticketID string) (desk.Ticket, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if fake.getErr != nil {
		return desk.Ticket{}, fake.getErr
	}
	ticket, ok := fake.tickets[ticketID]
	if !ok {
		return desk.Ticket{}, &deskapi.Error{StatusCode: 404, Message: "Ticket not found"}
	}
	return ticket, nil
}

func (fake *fakeDesk) ListTickets(context.Context) ([]desk.Ticket, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if fake.getErr != nil {
		return nil, fake.getErr
	}
	tickets := make([]desk.Ticket, 0, len(fake.order))
	for _, ticketID := range fake.order {
		tickets = append(tickets, fake.tickets[ticketID])
	}
	return tickets, nil
}

func (fake *fakeDesk) CloseTicket(_ context.Context, ticketID string) (desk.Ticket, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.closes = append(fake.closes, ticketID)
	if fake.closeErr != nil {
		return desk.Ticket{}, fake.closeErr
	}
	ticket := fake.tickets[ticketID]
	ticket.Status = desk.StatusClosed
	fake.tickets[ticketID] = ticket
	return ticket, nil
}

func (fake *fakeDesk) GetNotes(_ context.Context, ticketID string) ([]desk.Note, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if fake.notesErr != nil {
		return nil, fake.notesErr
	}
	return append([]desk.Note(nil), fake.notes[ticketID]...), nil
}

func (fake *fakeDesk) CreateNote(_ context.Context, text, ticketID string) (desk.Note, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.creates++
	if fake.createErr != nil {
		return desk.Note{}, fake.createErr
	}
	fake.nextNote++
	note := desk.Note{ID: fmt.Sprintf("n%d", fake.nextNote), TicketID: ticketID, Text: text, CreatedAt: testCreatedAt}
	fake.notes[ticketID] = append(fake.notes[ticketID], note)
	return note, nil
}

func (fake *fakeDesk) Login(_ context.Context, credentials desk.Credentials) (desk.Session, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.logins = append(fake.logins, credentials)
	if fake.loginErr != nil {
		return desk.Session{}, fake.loginErr
	}
	return desk.Session{ID: "u1", Name: "Ada", Email: credentials.Email, Token: "token"}, nil
}

func (fake *fakeDesk) Register(_ context.Context, registration desk.Registration) (desk.Session, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.registrations = append(fake.registrations, registration)
	if fake.loginErr != nil {
		return desk.Session{}, fake.loginErr
	}
	return desk.Session{ID: "u2", Name: registration.Name, Email: registration.Email, Token: "token"}, nil
}

var errUnavailable = errors.New("service unavailable")

type notification struct {
	kind    NotificationKind
	message string
}

type recordingNotifier struct {
	notifications []notification
}

func (notifier *recordingNotifier) Notify(kind NotificationKind, message string) {
	notifier.notifications = append(notifier.notifications, notification{kind: kind, message: message})
}

func (notifier *recordingNotifier) count(kind NotificationKind) int {
	count := 0
	for _, notice := range notifier.notifications {
		if notice.kind == kind {
			count++
		}
	}
	return count
}

type recordingNavigator struct {
	paths []string
}

func (navigator *recordingNavigator) NavigateTo(path string) {
	navigator.paths = append(navigator.paths, path)
}

func (navigator *recordingNavigator) last() string {
	if len(navigator.paths) == 0 {
		return ""
	}
	return navigator.paths[len(navigator.paths)-1]
}

func testOptions() ViewOptions {
	return ViewOptions{
		Theme: tui.DefaultTheme,
		Keys:  DefaultKeyMap,
		Now:   func() time.Time { return testCreatedAt.Add(time.Hour) },
	}
}

// run executes command and everything it batches, returning the
// resulting messages in order. Only pass commands that return
// immediately: store requests and spinner starts, never timers or
// cursor blinks.
func run(t *testing.T, command tea.Cmd) []tea.Msg {
	t.Helper()
	if command == nil {
		return nil
	}
	message := command()
	if batch, ok := message.(tea.BatchMsg); ok {
		var messages []tea.Msg
		for _, inner := range batch {
			messages = append(messages, run(t, inner)...)
		}
		return messages
	}
	if message == nil {
		return nil
	}
	return []tea.Msg{message}
}

// withoutTicks drops spinner ticks, which would otherwise schedule a
// sleeping follow-up tick.
func withoutTicks(messages []tea.Msg) []tea.Msg {
	var kept []tea.Msg
	for _, message := range messages {
		if _, isTick := message.(spinner.TickMsg); isTick {
			continue
		}
		kept = append(kept, message)
	}
	return kept
}

func runes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

// detailHarness plays the app's part for a lone DetailView: it applies
// store messages before the view sees them.
type detailHarness struct {
	fake      *fakeDesk
	tickets   *deskstore.TicketStore
	notes     *deskstore.NoteStore
	notifier  *recordingNotifier
	navigator *recordingNavigator
	view      *DetailView
}

func newDetailHarness(t *testing.T, fake *fakeDesk, ticketID string, options ViewOptions) *detailHarness {
	t.Helper()
	harness := &detailHarness{
		fake:      fake,
		tickets:   deskstore.NewTicketStore(fake, nil),
		notes:     deskstore.NewNoteStore(fake, nil),
		notifier:  &recordingNotifier{},
		navigator: &recordingNavigator{},
	}
	harness.view = NewDetailView(ticketID, harness.tickets, harness.notes, harness.notifier, harness.navigator, options)
	return harness
}

func (harness *detailHarness) deliver(messages ...tea.Msg) {
	for _, message := range messages {
		harness.tickets.Update(message)
		harness.notes.Update(message)
		harness.view.Update(message)
	}
}

// load runs Init and delivers both fetch results.
func (harness *detailHarness) load(t *testing.T) {
	t.Helper()
	harness.deliver(withoutTicks(run(t, harness.view.Init()))...)
}
