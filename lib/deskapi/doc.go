// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package deskapi is the REST client for the ticket service.
//
// [Client] implements the three collaborator roles the desk UI needs:
// authentication (Login, Register), tickets (ListTickets, GetTicket,
// CloseTicket) and notes (GetNotes, CreateNote). Requests carry the
// bearer token set by [Client.SetToken]; the token can change at any
// time (after a login inside the TUI) without recreating the client.
//
// Bodies are encoded with the configured [codec.Codec]. Responses are
// decoded by their Content-Type, so a JSON error page from a proxy in
// front of a CBOR service still yields a readable [Error].
//
// Non-2xx responses become *[Error]. Use errors.Is with
// [ErrUnauthorized], [ErrForbidden] or [ErrNotFound] to branch on the
// status class.
package deskapi
