// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of every desk screen. Bindings are
// context-sensitive: the same key may mean different things on the
// list and detail screens, and text inputs swallow printable keys.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Form navigation.
	NextField     key.Binding
	PreviousField key.Binding
	Submit        key.Binding
	GoRegister    key.Binding // Login screen: switch to registration.
	GoLogin       key.Binding // Register screen: switch to login.

	// List.
	Open           key.Binding
	FilterActivate key.Binding
	FilterClear    key.Binding

	// Detail.
	Back       key.Binding
	Refresh    key.Binding
	AddNote    key.Binding
	CloseNote  key.Binding // Dismiss the note dialog.
	SubmitNote key.Binding
	Close      key.Binding // Close the ticket.

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", " "),
		key.WithHelp("PgDn", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("Tab", "next field"),
	),
	PreviousField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("S-Tab", "previous field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "submit"),
	),
	GoRegister: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("C-r", "register"),
	),
	GoLogin: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("C-l", "login"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "view"),
	),
	FilterActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	FilterClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear filter"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("Esc", "back"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	AddNote: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "add note"),
	),
	CloseNote: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "cancel"),
	),
	SubmitNote: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("C-d", "submit"),
	),
	Close: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "close ticket"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// helpLine renders bindings as "key action" pairs separated by two
// spaces, for the bottom status line.
func helpLine(bindings ...key.Binding) string {
	line := ""
	for _, binding := range bindings {
		if !binding.Enabled() {
			continue
		}
		help := binding.Help()
		if line != "" {
			line += "  "
		}
		line += help.Key + " " + help.Desc
	}
	return line
}
