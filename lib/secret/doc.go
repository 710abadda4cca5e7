// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds passwords typed at the terminal in memory that
// is locked against swapping and zeroed on release.
//
// [Buffer] memory comes from an anonymous mmap outside the Go heap,
// locked with mlock and excluded from core dumps. [ReadPassword] reads
// a password from a terminal without echo, or one line from a pipe
// when stdin is redirected. Passwords leave the buffer only through
// [Buffer.String] at the request-encoding boundary, and the buffer is
// closed immediately after the submit.
//
// Depends on golang.org/x/sys/unix and golang.org/x/term.
package secret
