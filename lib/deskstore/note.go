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

// NotesFetchedMsg carries the result of [NoteStore.FetchByTicket].
type NotesFetchedMsg struct {
	Sequence uint64
	TicketID string
	Notes    []desk.Note
	Err      error
}

// NoteCreatedMsg carries the result of [NoteStore.Create].
type NoteCreatedMsg struct {
	Epoch    uint64
	TicketID string
	Note     desk.Note
	Err      error
}

// NoteStore holds the notes of one ticket.
type NoteStore struct {
	api    NoteAPI
	logger *slog.Logger

	ticketID string
	notes    []desk.Note
	status   RequestStatus
	sequence uint64
	cancel   context.CancelFunc
	// createdDuringFetch holds notes confirmed while a fetch was in
	// flight; they are merged into the fetched list on arrival.
	createdDuringFetch []desk.Note

	createStatus RequestStatus
	epoch        uint64
}

// NewNoteStore creates an empty store. A nil logger discards logs.
func NewNoteStore(api NoteAPI, logger *slog.Logger) *NoteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &NoteStore{api: api, logger: logger}
}

// FetchByTicket starts loading the notes of a ticket. The result
// replaces the list wholesale, in server order.
func (store *NoteStore) FetchByTicket(ticketID string) tea.Cmd {
	if store.cancel != nil {
		store.cancel()
	}
	store.sequence++
	sequence := store.sequence
	ctx, cancel := context.WithCancel(context.Background())
	store.cancel = cancel
	if store.ticketID != ticketID {
		store.notes = nil
	}
	store.ticketID = ticketID
	store.status = loading()
	store.createdDuringFetch = nil

	api := store.api
	return func() tea.Msg {
		notes, err := api.GetNotes(ctx, ticketID)
		return NotesFetchedMsg{Sequence: sequence, TicketID: ticketID, Notes: notes, Err: err}
	}
}

// Create sends a new note. On success the note is appended to the list
// if the store still holds the same ticket and was not reset since.
// An empty ticket id fails without a request.
func (store *NoteStore) Create(text, ticketID string) tea.Cmd {
	store.createStatus = loading()
	epoch := store.epoch
	if ticketID == "" {
		return func() tea.Msg {
			return NoteCreatedMsg{Epoch: epoch, Err: deskapi.ErrMissingTicket}
		}
	}
	api := store.api
	return func() tea.Msg {
		note, err := api.CreateNote(context.Background(), text, ticketID)
		return NoteCreatedMsg{Epoch: epoch, TicketID: ticketID, Note: note, Err: err}
	}
}

// Reset clears the list and statuses. Results of requests issued
// before the reset are discarded.
func (store *NoteStore) Reset() {
	if store.cancel != nil {
		store.cancel()
		store.cancel = nil
	}
	store.sequence++
	store.epoch++
	store.ticketID = ""
	store.notes = nil
	store.createdDuringFetch = nil
	store.status = idle()
	store.createStatus = idle()
}

// Update applies a result message and reports whether it changed the
// store's state.
func (store *NoteStore) Update(message tea.Msg) bool {
	switch message := message.(type) {
	case NotesFetchedMsg:
		return store.applyFetched(message)
	case NoteCreatedMsg:
		return store.applyCreated(message)
	}
	return false
}

// IsCurrent reports whether a NotesFetchedMsg answers the latest fetch.
func (store *NoteStore) IsCurrent(message NotesFetchedMsg) bool {
	return message.Sequence == store.sequence
}

// IsCurrentCreate reports whether a NoteCreatedMsg was dispatched
// since the last Reset.
func (store *NoteStore) IsCurrentCreate(message NoteCreatedMsg) bool {
	return message.Epoch == store.epoch
}

func (store *NoteStore) applyFetched(message NotesFetchedMsg) bool {
	if !store.IsCurrent(message) {
		store.logger.Debug("discarding stale notes response",
			"ticket", message.TicketID, "sequence", message.Sequence, "current", store.sequence)
		return false
	}
	store.cancel = nil
	if message.Err != nil {
		store.status = failed(deskapi.Message(message.Err))
		store.createdDuringFetch = nil
		store.logger.Warn("fetching notes failed", "ticket", message.TicketID, "error", message.Err)
		return true
	}
	store.notes = slices.Clone(message.Notes)
	for _, note := range store.createdDuringFetch {
		store.appendUnique(note)
	}
	store.createdDuringFetch = nil
	store.status = succeeded()
	return true
}

func (store *NoteStore) applyCreated(message NoteCreatedMsg) bool {
	if !store.IsCurrentCreate(message) {
		store.logger.Debug("discarding note created before reset", "ticket", message.TicketID)
		return false
	}
	if message.Err != nil {
		store.createStatus = failed(deskapi.Message(message.Err))
		store.logger.Warn("creating note failed", "ticket", message.TicketID, "error", message.Err)
		return true
	}
	store.createStatus = succeeded()
	if message.TicketID != store.ticketID {
		return true
	}
	store.appendUnique(message.Note)
	if store.status.IsLoading() {
		store.createdDuringFetch = append(store.createdDuringFetch, message.Note)
	}
	return true
}

func (store *NoteStore) appendUnique(note desk.Note) {
	if note.ID != "" && slices.ContainsFunc(store.notes, func(existing desk.Note) bool { return existing.ID == note.ID }) {
		return
	}
	store.notes = append(store.notes, note)
}

// TicketID is the ticket whose notes the store holds or is loading.
func (store *NoteStore) TicketID() string { return store.ticketID }

// Notes returns the loaded notes in server order. The slice must not
// be modified.
func (store *NoteStore) Notes() []desk.Note { return store.notes }

// Status is the state of the latest FetchByTicket.
func (store *NoteStore) Status() RequestStatus { return store.status }

// CreateStatus is the state of the latest Create since the last Reset.
func (store *NoteStore) CreateStatus() RequestStatus { return store.createStatus }
