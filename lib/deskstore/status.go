// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskstore

import (
	"context"

	"github.com/bureau-foundation/helpdesk/lib/schema/desk"
)

// Phase is where a request is in its lifecycle.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSucceeded
	PhaseFailed
)

func (phase Phase) String() string {
	switch phase {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RequestStatus is the state of the most recent request of one kind.
// Message is set only in PhaseFailed.
type RequestStatus struct {
	Phase   Phase
	Message string
}

func idle() RequestStatus      { return RequestStatus{Phase: PhaseIdle} }
func loading() RequestStatus   { return RequestStatus{Phase: PhaseLoading} }
func succeeded() RequestStatus { return RequestStatus{Phase: PhaseSucceeded} }

func failed(message string) RequestStatus {
	return RequestStatus{Phase: PhaseFailed, Message: message}
}

// IsLoading reports whether a request is in flight.
func (status RequestStatus) IsLoading() bool { return status.Phase == PhaseLoading }

// IsFailed reports whether the last request failed.
func (status RequestStatus) IsFailed() bool { return status.Phase == PhaseFailed }

func (status RequestStatus) String() string {
	if status.Phase == PhaseFailed {
		return "failed: " + status.Message
	}
	return status.Phase.String()
}

// TicketAPI is the remote ticket service as the ticket store needs it.
type TicketAPI interface {
	GetTicket(ctx context.Context, ticketID string) (desk.Ticket, error)
	ListTickets(ctx context.Context) ([]desk.Ticket, error)
	CloseTicket(ctx context.Context, ticketID string) (desk.Ticket, error)
}

// NoteAPI is the remote note service as the note store needs it.
type NoteAPI interface {
	GetNotes(ctx context.Context, ticketID string) ([]desk.Note, error)
	CreateNote(ctx context.Context, text, ticketID string) (desk.Note, error)
}
