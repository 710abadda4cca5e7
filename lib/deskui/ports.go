// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskui

import (
	"context"

	"github.com/bureau-foundation/helpdesk/lib/schema/desk"
)

// NotificationKind distinguishes success notifications from errors.
type NotificationKind int

const (
	NotifySuccess NotificationKind = iota
	NotifyError
)

func (kind NotificationKind) String() string {
	if kind == NotifyError {
		return "error"
	}
	return "success"
}

// Notifier shows a transient message to the user. Screens call it
// from Update, on the program goroutine.
type Notifier interface {
	Notify(kind NotificationKind, message string)
}

// Navigator switches the active route. Paths are /login, /register,
// /tickets and /ticket/<id>. The switch takes effect after the calling
// Update returns.
type Navigator interface {
	NavigateTo(path string)
}

// Authenticator is the identity service as the session forms need it.
// [deskapi.Client] implements it.
type Authenticator interface {
	Login(ctx context.Context, credentials desk.Credentials) (desk.Session, error)
	Register(ctx context.Context, registration desk.Registration) (desk.Session, error)
}

// NotifierFunc adapts a function to [Notifier].
type NotifierFunc func(kind NotificationKind, message string)

// Notify calls function(kind, message).
func (function NotifierFunc) Notify(kind NotificationKind, message string) {
	function(kind, message)
}

// Route paths.
const (
	RouteLogin    = "/login"
	RouteRegister = "/register"
	RouteTickets  = "/tickets"
	routeTicket   = "/ticket/"
)

// TicketRoute is the detail route of one ticket.
func TicketRoute(ticketID string) string { return routeTicket + ticketID }
