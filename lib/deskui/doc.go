// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package deskui is the interactive terminal client for the ticket
// service, built on bubbletea.
//
// [App] is the composition root. It owns the ticket and note stores
// from lib/deskstore, routes between screens, and implements the two
// ports screens use to reach outside themselves: [Notifier] (toasts)
// and [Navigator] (route changes). Screens never own stores; the app
// applies every store result message before forwarding it to the
// active screen, so a screen inspecting a store in Update sees the
// state the message produced.
//
// Routes:
//
//	/login          [LoginScreen], backed by [LoginForm]
//	/register       [RegisterScreen], backed by [RegisterForm]
//	/tickets        [ListView]
//	/ticket/<id>    [DetailView]
//
// The form controllers hold no terminal state and are reused by the
// desk CLI's login and register commands.
//
// [TUILogHandler] routes slog records into the running program so
// errors logged by lower layers still reach the user while the TUI
// owns the terminal.
package deskui
