// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package deskstore holds the client-side state of tickets and notes.
//
// [TicketStore] and [NoteStore] are request state machines for the
// bubbletea event loop. Operations (Fetch, Close, Create, ...) update
// the store synchronously and return a tea.Cmd that performs the API
// call off the loop. The command's result message comes back through
// the program and must be handed to the store's Update method, which
// is the only place results are applied. Stores are not safe for
// concurrent use; all calls happen on the event loop.
//
// Every fetch is tagged with a per-store sequence number. A result is
// applied only if its sequence number is the latest one issued, so
// when fetches for t1 and t2 overlap the store ends on t2 regardless
// of arrival order. Issuing a fetch also cancels the context of the
// fetch it supersedes. Reset advances the sequence, so responses to
// requests issued before the reset are discarded.
package deskstore
