// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/helpdesk/lib/tui"
)

// LoginScreen is the /login route.
type LoginScreen struct {
	form      *LoginForm
	screen    formScreen
	navigator Navigator
}

// NewLoginScreen creates the login screen around a fresh [LoginForm].
func NewLoginScreen(auth Authenticator, navigator Navigator, theme tui.Theme, keys KeyMap) *LoginScreen {
	form := NewLoginForm(auth)
	return &LoginScreen{
		form:      form,
		navigator: navigator,
		screen: newFormScreen("Login", "Please log in to get support",
			keys.GoRegister.Help().Key+" create an account",
			theme, keys, form.Change,
			fieldLayout{name: FieldEmail, placeholder: "Enter your email"},
			fieldLayout{name: FieldPassword, placeholder: "Enter password", secret: true},
		),
	}
}

// Form exposes the controller behind the screen.
func (login *LoginScreen) Form() *LoginForm { return login.form }

func (login *LoginScreen) Init() tea.Cmd { return login.screen.init() }

func (login *LoginScreen) Update(message tea.Msg) tea.Cmd {
	switch message := message.(type) {
	case AuthResultMsg:
		login.screen.busy = false
		return nil
	case tea.KeyMsg:
		if key.Matches(message, login.screen.keys.GoRegister) {
			login.navigator.NavigateTo(RouteRegister)
			return nil
		}
	}

	command, submit := login.screen.update(message)
	if !submit {
		return command
	}
	login.screen.busy = true
	return login.form.Submit()
}

func (login *LoginScreen) View(width, height int) string {
	return login.screen.view(width, height, "Signing in...")
}
