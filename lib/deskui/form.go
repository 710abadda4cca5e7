// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskui

import (
	"context"
	"maps"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/helpdesk/lib/schema/desk"
)

// Form field names.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
)

// PasswordMismatch is the notification shown when a registration's
// password and confirmation differ.
const PasswordMismatch = "Passwords do not match!"

// FormState is an immutable mapping from field name to value. The
// zero value has no fields.
type FormState struct {
	fields []string
	values map[string]string
}

// NewFormState returns a state with every named field set to "".
func NewFormState(fields ...string) FormState {
	values := make(map[string]string, len(fields))
	for _, field := range fields {
		values[field] = ""
	}
	return FormState{fields: slices.Clone(fields), values: values}
}

// With returns a state that differs from the receiver only in field.
// The receiver is not modified. Unknown fields return the receiver.
func (state FormState) With(field, value string) FormState {
	if _, ok := state.values[field]; !ok {
		return state
	}
	values := maps.Clone(state.values)
	values[field] = value
	return FormState{fields: state.fields, values: values}
}

// Get returns the value of field, or "" if the form has no such field.
func (state FormState) Get(field string) string { return state.values[field] }

// Fields returns the field names in declaration order.
func (state FormState) Fields() []string { return slices.Clone(state.fields) }

// Empty returns the fields whose value is "", in declaration order.
func (state FormState) Empty() []string {
	var empty []string
	for _, field := range state.fields {
		if state.values[field] == "" {
			empty = append(empty, field)
		}
	}
	return empty
}

// AuthResultMsg carries the outcome of a login or registration.
type AuthResultMsg struct {
	Session    desk.Session
	Err        error
	Registered bool
}

// LoginForm collects credentials and forwards them to the identity
// service.
type LoginForm struct {
	state FormState
	auth  Authenticator
}

// NewLoginForm creates an empty login form.
func NewLoginForm(auth Authenticator) *LoginForm {
	return &LoginForm{state: NewFormState(FieldEmail, FieldPassword), auth: auth}
}

// State returns the current field values.
func (form *LoginForm) State() FormState { return form.state }

// Change replaces one field's value.
func (form *LoginForm) Change(field, value string) {
	form.state = form.state.With(field, value)
}

// Submit returns the command that logs in with the current values.
func (form *LoginForm) Submit() tea.Cmd {
	credentials := desk.Credentials{
		Email:    form.state.Get(FieldEmail),
		Password: form.state.Get(FieldPassword),
	}
	auth := form.auth
	return func() tea.Msg {
		session, err := auth.Login(context.Background(), credentials)
		return AuthResultMsg{Session: session, Err: err}
	}
}

// RegisterForm collects a new account's details. The confirmation
// field never leaves the form.
type RegisterForm struct {
	state    FormState
	auth     Authenticator
	notifier Notifier
}

// NewRegisterForm creates an empty registration form. Password
// mismatches are reported through notifier.
func NewRegisterForm(auth Authenticator, notifier Notifier) *RegisterForm {
	return &RegisterForm{
		state:    NewFormState(FieldName, FieldEmail, FieldPassword, FieldConfirmPassword),
		auth:     auth,
		notifier: notifier,
	}
}

// State returns the current field values.
func (form *RegisterForm) State() FormState { return form.state }

// Change replaces one field's value.
func (form *RegisterForm) Change(field, value string) {
	form.state = form.state.With(field, value)
}

// Submit returns the command that registers the account, or nil after
// notifying the user when the password and its confirmation differ.
func (form *RegisterForm) Submit() tea.Cmd {
	if form.state.Get(FieldPassword) != form.state.Get(FieldConfirmPassword) {
		form.notifier.Notify(NotifyError, PasswordMismatch)
		return nil
	}
	registration := desk.Registration{
		Name:     form.state.Get(FieldName),
		Email:    form.state.Get(FieldEmail),
		Password: form.state.Get(FieldPassword),
	}
	auth := form.auth
	return func() tea.Msg {
		session, err := auth.Register(context.Background(), registration)
		return AuthResultMsg{Session: session, Err: err, Registered: true}
	}
}
