// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the desk binary.
//
// [GitCommit], [GitDirty], [BuildTime] and [Version] are injected at
// build time:
//
//	go build -ldflags "-X github.com/bureau-foundation/helpdesk/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/desk
//
// Without injection they keep their development defaults, and [Info]
// falls back to the VCS stamp the Go toolchain embeds.
package version
