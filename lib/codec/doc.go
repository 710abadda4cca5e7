// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the wire codecs spoken between the helpdesk
// client and the ticket service.
//
// Two formats are supported:
//
//   - JSON (application/json), the default and the format of the
//     original service.
//   - CBOR (application/cbor), for deployments that run the ticket
//     service behind a CBOR-speaking gateway. The encoder uses Core
//     Deterministic Encoding (RFC 8949 §4.2), so the same logical value
//     always produces identical bytes.
//
// Both formats use the same struct tags. fxamacker/cbor reads `json`
// tags when `cbor` tags are absent, so protocol types in
// [desk] carry `json` tags only.
//
// Callers pick a codec by configuration name ([ByName]) or by a
// response's Content-Type header ([ByContentType]):
//
//	wire, err := codec.ByName(cfg.Wire)
//	body, err := wire.Marshal(request)
//	request.Header.Set("Content-Type", wire.ContentType())
package codec
