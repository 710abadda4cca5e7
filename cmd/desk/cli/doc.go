// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework for the desk binary: a tree of
// [Command] values with pflag-based flags bound from tagged parameter
// structs, categorized [ToolError] values that map to exit codes, the
// command logger, and the saved [Session] file.
package cli
