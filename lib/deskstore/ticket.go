// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskstore

import (
	"context"
	"log/slog"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/helpdesk/lib/deskapi"
	"github.com/bureau-foundation/helpdesk/lib/schema/desk"
)

// TicketFetchedMsg carries the result of [TicketStore.Fetch].
type TicketFetchedMsg struct {
	Sequence uint64
	TicketID string
	Ticket   desk.Ticket
	Err      error
}

// TicketsListedMsg carries the result of [TicketStore.FetchAll].
type TicketsListedMsg struct {
	Sequence uint64
	Tickets  []desk.Ticket
	Err      error
}

// TicketClosedMsg carries the result of [TicketStore.Close].
type TicketClosedMsg struct {
	// Epoch is the store's reset count when the close was dispatched.
	Epoch    uint64
	TicketID string
	Ticket   desk.Ticket
	Err      error
}

// TicketStore holds the current ticket, the ticket list, and the
// status of requests against them.
type TicketStore struct {
	api    TicketAPI
	logger *slog.Logger

	ticket    desk.Ticket
	hasTicket bool
	status    RequestStatus
	sequence  uint64
	cancel    context.CancelFunc

	tickets      []desk.Ticket
	listStatus   RequestStatus
	listSequence uint64
	listCancel   context.CancelFunc
	// closedDuringList holds tickets whose close was confirmed while a
	// list fetch was in flight. The list response may predate the close.
	closedDuringList map[string]desk.Ticket

	closeStatus RequestStatus
	epoch       uint64
}

// NewTicketStore creates an empty store. A nil logger discards logs.
func NewTicketStore(api TicketAPI, logger *slog.Logger) *TicketStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TicketStore{api: api, logger: logger}
}

// Fetch starts loading one ticket. Any fetch still in flight is
// cancelled and its result will be discarded.
func (store *TicketStore) Fetch(ticketID string) tea.Cmd {
	if store.cancel != nil {
		store.cancel()
	}
	store.sequence++
	sequence := store.sequence
	ctx, cancel := context.WithCancel(context.Background())
	store.cancel = cancel
	store.status = loading()

	api := store.api
	return func() tea.Msg {
		ticket, err := api.GetTicket(ctx, ticketID)
		return TicketFetchedMsg{Sequence: sequence, TicketID: ticketID, Ticket: ticket, Err: err}
	}
}

// FetchAll starts loading the ticket list, superseding any list fetch
// in flight.
func (store *TicketStore) FetchAll() tea.Cmd {
	if store.listCancel != nil {
		store.listCancel()
	}
	store.listSequence++
	sequence := store.listSequence
	ctx, cancel := context.WithCancel(context.Background())
	store.listCancel = cancel
	store.listStatus = loading()
	store.closedDuringList = nil

	api := store.api
	return func() tea.Msg {
		tickets, err := api.ListTickets(ctx)
		return TicketsListedMsg{Sequence: sequence, Tickets: tickets, Err: err}
	}
}

// Close asks the service to close a ticket. The caller does not wait
// for the outcome; it arrives as a TicketClosedMsg.
func (store *TicketStore) Close(ticketID string) tea.Cmd {
	store.closeStatus = loading()
	epoch := store.epoch
	api := store.api
	return func() tea.Msg {
		ticket, err := api.CloseTicket(context.Background(), ticketID)
		return TicketClosedMsg{Epoch: epoch, TicketID: ticketID, Ticket: ticket, Err: err}
	}
}

// Reset clears all state and cancels in-flight fetches. Results of
// requests issued before the reset are discarded.
func (store *TicketStore) Reset() {
	if store.cancel != nil {
		store.cancel()
		store.cancel = nil
	}
	if store.listCancel != nil {
		store.listCancel()
		store.listCancel = nil
	}
	store.sequence++
	store.listSequence++
	store.epoch++

	store.ticket = desk.Ticket{}
	store.hasTicket = false
	store.tickets = nil
	store.closedDuringList = nil
	store.status = idle()
	store.listStatus = idle()
	store.closeStatus = idle()
}

// Update applies a result message. It reports whether the message
// belonged to this store and changed its state; stale results and
// foreign messages return false.
func (store *TicketStore) Update(message tea.Msg) bool {
	switch message := message.(type) {
	case TicketFetchedMsg:
		return store.applyFetched(message)
	case TicketsListedMsg:
		return store.applyListed(message)
	case TicketClosedMsg:
		return store.applyClosed(message)
	}
	return false
}

// IsCurrent reports whether a TicketFetchedMsg answers the latest
// fetch. Views call it before Update to decide whether to react.
func (store *TicketStore) IsCurrent(message TicketFetchedMsg) bool {
	return message.Sequence == store.sequence
}

// IsCurrentList is IsCurrent for list results.
func (store *TicketStore) IsCurrentList(message TicketsListedMsg) bool {
	return message.Sequence == store.listSequence
}

func (store *TicketStore) applyFetched(message TicketFetchedMsg) bool {
	if !store.IsCurrent(message) {
		store.logger.Debug("discarding stale ticket response",
			"ticket", message.TicketID, "sequence", message.Sequence, "current", store.sequence)
		return false
	}
	store.cancel = nil
	if message.Err != nil {
		store.status = failed(deskapi.Message(message.Err))
		store.logger.Warn("fetching ticket failed", "ticket", message.TicketID, "error", message.Err)
		return true
	}
	store.ticket = message.Ticket
	store.hasTicket = true
	store.status = succeeded()
	return true
}

func (store *TicketStore) applyListed(message TicketsListedMsg) bool {
	if !store.IsCurrentList(message) {
		store.logger.Debug("discarding stale ticket list", "sequence", message.Sequence, "current", store.listSequence)
		return false
	}
	store.listCancel = nil
	if message.Err != nil {
		store.listStatus = failed(deskapi.Message(message.Err))
		store.closedDuringList = nil
		store.logger.Warn("listing tickets failed", "error", message.Err)
		return true
	}
	store.tickets = slices.Clone(message.Tickets)
	for _, closed := range store.closedDuringList {
		store.replaceListed(closed)
	}
	store.closedDuringList = nil
	store.listStatus = succeeded()
	return true
}

func (store *TicketStore) applyClosed(message TicketClosedMsg) bool {
	current := message.Epoch == store.epoch
	if message.Err != nil {
		if current {
			store.closeStatus = failed(deskapi.Message(message.Err))
		}
		store.logger.Warn("closing ticket failed", "ticket", message.TicketID, "error", message.Err)
		return current
	}
	if current {
		store.closeStatus = succeeded()
	}

	// Confirmed closes patch the cached ticket and list entry even
	// across resets.
	closed := message.Ticket
	if closed.ID == "" {
		closed.ID = message.TicketID
	}
	closed.Status = desk.StatusClosed
	if store.hasTicket && store.ticket.ID == closed.ID {
		store.ticket.Status = desk.StatusClosed
		if !closed.UpdatedAt.IsZero() {
			store.ticket.UpdatedAt = closed.UpdatedAt
		}
	}
	store.replaceListed(closed)
	if store.listStatus.IsLoading() {
		if store.closedDuringList == nil {
			store.closedDuringList = make(map[string]desk.Ticket)
		}
		store.closedDuringList[closed.ID] = closed
	}
	return true
}

// replaceListed marks the list entry for ticket as closed.
func (store *TicketStore) replaceListed(ticket desk.Ticket) {
	index := slices.IndexFunc(store.tickets, func(listed desk.Ticket) bool { return listed.ID == ticket.ID })
	if index < 0 {
		return
	}
	store.tickets[index].Status = desk.StatusClosed
	if !ticket.UpdatedAt.IsZero() {
		store.tickets[index].UpdatedAt = ticket.UpdatedAt
	}
}

// Ticket returns the current ticket, if one has loaded.
func (store *TicketStore) Ticket() (desk.Ticket, bool) {
	return store.ticket, store.hasTicket
}

// Status is the state of the latest Fetch.
func (store *TicketStore) Status() RequestStatus { return store.status }

// Tickets returns the loaded ticket list. The slice must not be modified.
func (store *TicketStore) Tickets() []desk.Ticket { return store.tickets }

// ListStatus is the state of the latest FetchAll.
func (store *TicketStore) ListStatus() RequestStatus { return store.listStatus }

// CloseStatus is the state of the latest Close since the last Reset.
func (store *TicketStore) CloseStatus() RequestStatus { return store.closeStatus }
