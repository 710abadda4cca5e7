// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides the terminal building blocks shared by the desk
// screens: the color theme, overlay splicing, the note dialog, toast
// rendering, terminal markdown, fuzzy matching, and scrollbars.
//
// Components here know nothing about stores or routing. Screens in
// lib/deskui own state and compose these pieces in their View methods.
package tui
