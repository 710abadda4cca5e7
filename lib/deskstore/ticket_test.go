// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskstore

import (
	"errors"
	"testing"

	"github.com/bureau-foundation/helpdesk/lib/schema/desk"
)

func TestTicketFetch(t *testing.T) {
	store := NewTicketStore(newFakeAPI(), nil)

	command := store.Fetch("t1")
	if !store.Status().IsLoading() {
		t.Fatalf("status after Fetch = %s, want loading", store.Status())
	}
	if !store.Update(command()) {
		t.Fatal("current response not applied")
	}
	ticket, ok := store.Ticket()
	if !ok || ticket.ID != "t1" {
		t.Fatalf("Ticket() = %+v, %v", ticket, ok)
	}
	if store.Status().Phase != PhaseSucceeded {
		t.Errorf("status = %s, want succeeded", store.Status())
	}
}

func TestTicketFetchFailure(t *testing.T) {
	store := NewTicketStore(newFakeAPI(), nil)
	store.Update(store.Fetch("missing")())

	status := store.Status()
	if !status.IsFailed() || status.Message != "Ticket not found" {
		t.Errorf("status = %s, want failed: Ticket not found", status)
	}
	if _, ok := store.Ticket(); ok {
		t.Error("ticket present after failed fetch")
	}
}

// Overlapping fetches settle on the latest request whatever order the
// responses arrive in. The superseded response is dropped, not applied
// and then overwritten.
func TestTicketFetchSequenceGuard(t *testing.T) {
	for _, order := range []string{"in order", "reversed"} {
		t.Run(order, func(t *testing.T) {
			store := NewTicketStore(newFakeAPI(), nil)
			first := store.Fetch("t1")
			second := store.Fetch("t2")
			firstMessage, secondMessage := first(), second()

			if order == "in order" {
				if store.Update(firstMessage) {
					t.Error("stale t1 response applied")
				}
				store.Update(secondMessage)
			} else {
				store.Update(secondMessage)
				if store.Update(firstMessage) {
					t.Error("stale t1 response applied after t2")
				}
			}

			ticket, _ := store.Ticket()
			if ticket.ID != "t2" {
				t.Errorf("ticket = %s, want t2", ticket.ID)
			}
			if store.Status().Phase != PhaseSucceeded {
				t.Errorf("status = %s, want succeeded", store.Status())
			}
		})
	}
}

func TestTicketFetchCancelsSuperseded(t *testing.T) {
	api := newFakeAPI()
	store := NewTicketStore(api, nil)
	store.Fetch("t1")()
	firstContext := api.context("ticket/t1")
	if firstContext.Err() != nil {
		t.Fatal("context cancelled before being superseded")
	}

	store.Fetch("t2")
	if firstContext.Err() == nil {
		t.Error("superseded fetch context not cancelled")
	}
}

func TestTicketResetDiscardsInFlight(t *testing.T) {
	store := NewTicketStore(newFakeAPI(), nil)
	inFlight := store.Fetch("t1")
	list := store.FetchAll()
	store.Reset()

	if store.Update(inFlight()) || store.Update(list()) {
		t.Fatal("response issued before Reset was applied")
	}
	if _, ok := store.Ticket(); ok {
		t.Error("ticket present after Reset")
	}
	if store.Status().Phase != PhaseIdle || store.ListStatus().Phase != PhaseIdle {
		t.Errorf("statuses after Reset = %s / %s, want idle", store.Status(), store.ListStatus())
	}
}

func TestTicketClose(t *testing.T) {
	store := NewTicketStore(newFakeAPI(), nil)
	store.Update(store.Fetch("t1")())
	store.Update(store.FetchAll()())

	store.Update(store.Close("t1")())

	ticket, _ := store.Ticket()
	if !ticket.IsClosed() {
		t.Errorf("cached ticket status = %s, want closed", ticket.Status)
	}
	if store.Tickets()[0].Status != desk.StatusClosed {
		t.Errorf("list entry status = %s, want closed", store.Tickets()[0].Status)
	}
	if store.CloseStatus().Phase != PhaseSucceeded {
		t.Errorf("close status = %s", store.CloseStatus())
	}
}

func TestTicketCloseFailure(t *testing.T) {
	api := newFakeAPI()
	api.closeErr = errors.New("service unavailable")
	store := NewTicketStore(api, nil)
	store.Update(store.Fetch("t1")())

	store.Update(store.Close("t1")())

	if status := store.CloseStatus(); !status.IsFailed() || status.Message != "service unavailable" {
		t.Errorf("close status = %s", status)
	}
	ticket, _ := store.Ticket()
	if ticket.IsClosed() {
		t.Error("ticket marked closed after failed close")
	}
}

// The optimistic close flow navigates to the list, resetting the store
// and refetching, before the close is confirmed. A list response that
// predates the close must not reopen the ticket.
func TestTicketCloseConfirmedDuringListFetch(t *testing.T) {
	api := newFakeAPI()
	store := NewTicketStore(api, nil)
	store.Update(store.Fetch("t1")())

	closing := store.Close("t1")
	store.Reset()
	list := store.FetchAll()
	staleList := list() // served before the close reached the service

	if !store.Update(closing()) {
		t.Fatal("confirmed close not applied after Reset")
	}
	if store.CloseStatus().Phase != PhaseIdle {
		t.Errorf("close status leaked across Reset: %s", store.CloseStatus())
	}
	store.Update(staleList)

	tickets := store.Tickets()
	if len(tickets) != 2 || tickets[0].ID != "t1" || !tickets[0].IsClosed() {
		t.Errorf("tickets = %+v, want t1 closed", tickets)
	}
}
