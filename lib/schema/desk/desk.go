// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package desk

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a ticket.
type Status string

const (
	// StatusNew is a ticket nobody has looked at yet.
	StatusNew Status = "new"
	// StatusOpen is a ticket being worked on.
	StatusOpen Status = "open"
	// StatusClosed is terminal. A closed ticket accepts no new notes.
	StatusClosed Status = "closed"
)

// ParseStatus converts a wire status string to a Status. Unknown
// values are an error.
func ParseStatus(value string) (Status, error) {
	switch Status(value) {
	case StatusNew, StatusOpen, StatusClosed:
		return Status(value), nil
	default:
		return "", fmt.Errorf("unknown ticket status %q", value)
	}
}

// Valid reports whether the status is one of the three known values.
func (status Status) Valid() bool {
	_, err := ParseStatus(string(status))
	return err == nil
}

// Ticket is a support request.
type Ticket struct {
	// ID is assigned by the ticket service.
	ID string `json:"_id"`

	// User is the id of the customer who submitted the ticket.
	User string `json:"user,omitempty"`

	// Product names what the ticket is about.
	Product string `json:"product"`

	// Description is the customer's account of the issue. May contain
	// markdown.
	Description string `json:"description"`

	Status Status `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// IsClosed reports whether the ticket has reached the closed state.
func (ticket Ticket) IsClosed() bool {
	return ticket.Status == StatusClosed
}

// Note is a free-text annotation attached to a ticket.
type Note struct {
	ID string `json:"_id"`

	// TicketID references the ticket this note belongs to. Always set:
	// a note cannot exist without its ticket.
	TicketID string `json:"ticket"`

	// User is the id of the note's author.
	User string `json:"user,omitempty"`

	Text string `json:"text"`

	// IsStaff is true when a support staff member wrote the note.
	IsStaff bool   `json:"isStaff,omitempty"`
	StaffID string `json:"staffId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Session is the result of a successful login or registration.
type Session struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`

	// Token is the bearer token presented on every API request.
	Token string `json:"token"`
}

// Credentials is the login payload. Ephemeral: built by the login form
// at submit time and dropped once the request is sent.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the payload forwarded by a valid registration
// submit. The password confirmation never leaves the form.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
