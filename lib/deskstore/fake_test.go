// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskstore

import (
	"context"
	"errors"
	"sync"

	"github.com/bureau-foundation/helpdesk/lib/deskapi"
	"github.com/bureau-foundation/helpdesk/lib/schema/desk"
)

// fakeAPI answers from fixed maps. Contexts passed to each call are
// recorded so tests can check cancellation.
type fakeAPI struct {
	mu        sync.Mutex
	tickets   map[string]desk.Ticket
	notes     map[string][]desk.Note
	closeErr  error
	createErr error
	nextNote  int
	contexts  map[string]context.Context
	creates   int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		tickets: map[string]desk.Ticket{
			"t1": {ID: "t1", Product: "iMac", Status: desk.StatusOpen},
			"t2": {ID: "t2", Product: "iPad", Status: desk.StatusNew},
		},
		notes: map[string][]desk.Note{
			"t1": {{ID: "n1", TicketID: "t1", Text: "first"}},
			"t2": {},
		},
		contexts: make(map[string]context.Context),
	}
}

func (api *fakeAPI) GetTicket(ctx context.Context, ticketID string) (desk.Ticket, error) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.contexts["ticket/"+ticketID] = ctx
	ticket, ok := api.tickets[ticketID]
	if !ok {
		return desk.Ticket{}, &deskapi.Error{StatusCode: 404, Message: "Ticket not found"}
	}
	return ticket, nil
}

func (api *fakeAPI) ListTickets(ctx context.Context) ([]desk.Ticket, error) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.contexts["list"] = ctx
	return []desk.Ticket{api.tickets["t1"], api.tickets["t2"]}, nil
}

func (api *fakeAPI) CloseTicket(ctx context.Context, ticketID string) (desk.Ticket, error) {
	api.mu.Lock()
	defer api.mu.Unlock()
	if api.closeErr != nil {
		return desk.Ticket{}, api.closeErr
	}
	ticket := api.tickets[ticketID]
	ticket.Status = desk.StatusClosed
	api.tickets[ticketID] = ticket
	return ticket, nil
}

func (api *fakeAPI) GetNotes(ctx context.Context, ticketID string) ([]desk.Note, error) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.contexts["notes/"+ticketID] = ctx
	notes, ok := api.notes[ticketID]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return append([]desk.Note(nil), notes...), nil
}

func (api *fakeAPI) CreateNote(ctx context.Context, text, ticketID string) (desk.Note, error) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.creates++
	if api.createErr != nil {
		return desk.Note{}, api.createErr
	}
	api.nextNote++
	note := desk.Note{ID: "created-" + string(rune('0'+api.nextNote)), TicketID: ticketID, Text: text}
	api.notes[ticketID] = append(api.notes[ticketID], note)
	return note, nil
}

func (api *fakeAPI) context(key string) context.Context {
	api.mu.Lock()
	defer api.mu.Unlock()
	return api.contexts[key]
}
