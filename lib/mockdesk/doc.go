// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package mockdesk is an in-memory implementation of the ticket
// service REST API.
//
// It backs `desk mock-server` for offline use and the deskapi and
// end-to-end tests. Behaviour follows the production service: bcrypt
// password hashes, HS256 JWT bearer tokens valid for 30 days, tickets
// scoped to their owner (another user's ticket is 401 "Not
// Authorized"), and {"message": ...} error bodies.
//
// Requests are decoded by Content-Type and responses encoded per
// Accept, both JSON or CBOR through lib/codec.
//
// A [Server] can inject failures for a route with [Server.FailNext],
// which is how the UI tests exercise the close and note failure paths
// over real HTTP.
package mockdesk
