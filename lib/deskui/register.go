// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/helpdesk/lib/tui"
)

// RegisterScreen is the /register route.
type RegisterScreen struct {
	form      *RegisterForm
	screen    formScreen
	navigator Navigator
}

// NewRegisterScreen creates the registration screen around a fresh
// [RegisterForm].
func NewRegisterScreen(auth Authenticator, notifier Notifier, navigator Navigator, theme tui.Theme, keys KeyMap) *RegisterScreen {
	form := NewRegisterForm(auth, notifier)
	return &RegisterScreen{
		form:      form,
		navigator: navigator,
		screen: newFormScreen("Register", "Please create an account",
			keys.GoLogin.Help().Key+" log in instead",
			theme, keys, form.Change,
			fieldLayout{name: FieldName, placeholder: "Enter your name"},
			fieldLayout{name: FieldEmail, placeholder: "Enter your email"},
			fieldLayout{name: FieldPassword, placeholder: "Enter password", secret: true},
			fieldLayout{name: FieldConfirmPassword, placeholder: "Confirm password", secret: true},
		),
	}
}

// Form exposes the controller behind the screen.
func (register *RegisterScreen) Form() *RegisterForm { return register.form }

func (register *RegisterScreen) Init() tea.Cmd { return register.screen.init() }

func (register *RegisterScreen) Update(message tea.Msg) tea.Cmd {
	switch message := message.(type) {
	case AuthResultMsg:
		register.screen.busy = false
		return nil
	case tea.KeyMsg:
		if key.Matches(message, register.screen.keys.GoLogin) {
			register.navigator.NavigateTo(RouteLogin)
			return nil
		}
	}

	command, submit := register.screen.update(message)
	if !submit {
		return command
	}
	// A mismatch notifies and returns nil; the form stays editable.
	submitted := register.form.Submit()
	if submitted == nil {
		return command
	}
	register.screen.busy = true
	return submitted
}

func (register *RegisterScreen) View(width, height int) string {
	return register.screen.view(width, height, "Creating account...")
}
