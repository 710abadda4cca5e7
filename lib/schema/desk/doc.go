// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package desk defines the helpdesk protocol types shared by the REST
// client, the reference server, the client-side stores, and the
// terminal UI: tickets, notes, sessions, and the credential payloads
// submitted by the login and registration forms.
//
// The remote ticket service owns every ticket and note. Values of these
// types held by a client are cached copies that may be stale; the only
// local mutation is closing a ticket.
//
// Struct tags use `json` only. The CBOR codec falls back to json tags
// (see [codec]), so one tag set controls both wire formats.
package desk
