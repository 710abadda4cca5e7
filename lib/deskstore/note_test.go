// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskstore

import (
	"errors"
	"testing"

	"github.com/bureau-foundation/helpdesk/lib/deskapi"
)

func TestNoteFetchByTicket(t *testing.T) {
	store := NewNoteStore(newFakeAPI(), nil)
	store.Update(store.FetchByTicket("t1")())

	notes := store.Notes()
	if len(notes) != 1 || notes[0].ID != "n1" {
		t.Fatalf("notes = %+v", notes)
	}
	if store.TicketID() != "t1" || store.Status().Phase != PhaseSucceeded {
		t.Errorf("ticket=%s status=%s", store.TicketID(), store.Status())
	}
}

func TestNoteFetchFailure(t *testing.T) {
	store := NewNoteStore(newFakeAPI(), nil)
	store.Update(store.FetchByTicket("unknown")())

	if status := store.Status(); !status.IsFailed() || status.Message != "connection refused" {
		t.Errorf("status = %s", status)
	}
}

func TestNoteFetchSequenceGuard(t *testing.T) {
	api := newFakeAPI()
	store := NewNoteStore(api, nil)
	first := store.FetchByTicket("t1")
	second := store.FetchByTicket("t2")
	firstMessage := first()
	if api.context("notes/t1").Err() == nil {
		t.Error("superseded notes fetch not cancelled")
	}

	store.Update(second())
	if store.Update(firstMessage) {
		t.Error("stale t1 notes applied")
	}
	if len(store.Notes()) != 0 || store.TicketID() != "t2" {
		t.Errorf("store holds %s with %d notes, want t2 with 0", store.TicketID(), len(store.Notes()))
	}
}

func TestNoteCreateAppends(t *testing.T) {
	store := NewNoteStore(newFakeAPI(), nil)
	store.Update(store.FetchByTicket("t2")())

	message := store.Create("Hello", "t2")()
	store.Update(message)
	// Redelivery must not duplicate.
	store.Update(message)

	notes := store.Notes()
	if len(notes) != 1 || notes[0].Text != "Hello" {
		t.Fatalf("notes = %+v, want one note Hello", notes)
	}
	if store.CreateStatus().Phase != PhaseSucceeded {
		t.Errorf("create status = %s", store.CreateStatus())
	}
}

func TestNoteCreateForOtherTicketNotAppended(t *testing.T) {
	store := NewNoteStore(newFakeAPI(), nil)
	create := store.Create("Hello", "t1")
	store.Update(store.FetchByTicket("t2")())

	store.Update(create())
	if len(store.Notes()) != 0 {
		t.Errorf("note for t1 appended to t2's list: %+v", store.Notes())
	}
}

func TestNoteCreateDiscardedAfterReset(t *testing.T) {
	store := NewNoteStore(newFakeAPI(), nil)
	store.Update(store.FetchByTicket("t2")())
	create := store.Create("Hello", "t2")
	store.Reset()

	if store.Update(create()) {
		t.Error("create result from before Reset applied")
	}
	if len(store.Notes()) != 0 || store.CreateStatus().Phase != PhaseIdle {
		t.Errorf("store changed by stale create: %+v %s", store.Notes(), store.CreateStatus())
	}
}

func TestNoteCreatedDuringRefetchSurvives(t *testing.T) {
	store := NewNoteStore(newFakeAPI(), nil)
	store.Update(store.FetchByTicket("t2")())

	refetch := store.FetchByTicket("t2")
	staleList := refetch() // served before the create
	store.Update(store.Create("Hello", "t2")())
	store.Update(staleList)

	notes := store.Notes()
	if len(notes) != 1 || notes[0].Text != "Hello" {
		t.Errorf("notes = %+v, want the created note kept", notes)
	}
}

func TestNoteCreateFailure(t *testing.T) {
	api := newFakeAPI()
	api.createErr = &deskapi.Error{StatusCode: 500, Message: "Server error"}
	store := NewNoteStore(api, nil)
	store.Update(store.FetchByTicket("t2")())

	store.Update(store.Create("Hello", "t2")())
	if status := store.CreateStatus(); !status.IsFailed() || status.Message != "Server error" {
		t.Errorf("create status = %s", status)
	}
	if len(store.Notes()) != 0 {
		t.Errorf("failed note appended: %+v", store.Notes())
	}
}

func TestNoteCreateWithoutTicketSendsNothing(t *testing.T) {
	api := newFakeAPI()
	store := NewNoteStore(api, nil)

	message := store.Create("Hello", "")().(NoteCreatedMsg)
	if !errors.Is(message.Err, deskapi.ErrMissingTicket) {
		t.Errorf("error = %v, want ErrMissingTicket", message.Err)
	}
	if api.creates != 0 {
		t.Errorf("%d create requests sent, want 0", api.creates)
	}
}
