// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/helpdesk/lib/tui"
)

// requiredHint is shown under the form when submit is attempted with
// an empty field.
const requiredHint = "Please fill in all fields"

type fieldLayout struct {
	name        string
	placeholder string
	secret      bool
}

type formField struct {
	name  string
	input textinput.Model
}

// formScreen is the input handling shared by the login and register
// screens: one textinput per field, focus cycling, and submit gating
// on required fields. The owning screen mirrors every keystroke into
// its form controller through onChange.
type formScreen struct {
	heading    string
	subheading string
	link       string
	fields     []formField
	focus      int
	hint       string
	busy       bool
	theme      tui.Theme
	keys       KeyMap
	onChange   func(field, value string)
}

func newFormScreen(heading, subheading, link string, theme tui.Theme, keys KeyMap, onChange func(field, value string), layouts ...fieldLayout) formScreen {
	screen := formScreen{
		heading:    heading,
		subheading: subheading,
		link:       link,
		theme:      theme,
		keys:       keys,
		onChange:   onChange,
	}
	for _, layout := range layouts {
		input := textinput.New()
		input.Placeholder = layout.placeholder
		input.Prompt = ""
		input.CharLimit = 256
		if layout.secret {
			input.EchoMode = textinput.EchoPassword
			input.EchoCharacter = '•'
		}
		screen.fields = append(screen.fields, formField{name: layout.name, input: input})
	}
	return screen
}

func (screen *formScreen) init() tea.Cmd {
	if len(screen.fields) == 0 {
		return nil
	}
	return screen.fields[screen.focus].input.Focus()
}

// update handles focus movement and text entry. It reports submit
// when Enter is pressed while every field is filled; otherwise Enter
// moves focus to the first empty field and shows the required hint.
func (screen *formScreen) update(message tea.Msg) (tea.Cmd, bool) {
	keyMessage, isKey := message.(tea.KeyMsg)
	if !isKey {
		var command tea.Cmd
		field := &screen.fields[screen.focus]
		field.input, command = field.input.Update(message)
		return command, false
	}

	switch {
	case key.Matches(keyMessage, screen.keys.Submit):
		if screen.busy {
			return nil, false
		}
		if empty := screen.firstEmpty(); empty >= 0 {
			screen.hint = requiredHint
			return screen.focusField(empty), false
		}
		screen.hint = ""
		return nil, true

	case key.Matches(keyMessage, screen.keys.NextField):
		return screen.focusField((screen.focus + 1) % len(screen.fields)), false

	case key.Matches(keyMessage, screen.keys.PreviousField):
		return screen.focusField((screen.focus + len(screen.fields) - 1) % len(screen.fields)), false
	}

	field := &screen.fields[screen.focus]
	before := field.input.Value()
	var command tea.Cmd
	field.input, command = field.input.Update(keyMessage)
	if after := field.input.Value(); after != before {
		screen.hint = ""
		screen.onChange(field.name, after)
	}
	return command, false
}

func (screen *formScreen) firstEmpty() int {
	for index, field := range screen.fields {
		if field.input.Value() == "" {
			return index
		}
	}
	return -1
}

func (screen *formScreen) focusField(index int) tea.Cmd {
	screen.fields[screen.focus].input.Blur()
	screen.focus = index
	return screen.fields[index].input.Focus()
}

// setValue fills a field programmatically, as if typed.
func (screen *formScreen) setValue(name, value string) {
	for index := range screen.fields {
		if screen.fields[index].name == name {
			screen.fields[index].input.SetValue(value)
			screen.onChange(name, value)
			return
		}
	}
}

func (screen *formScreen) view(width, height int, status string) string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(screen.theme.HeaderForeground).Render(screen.heading)
	subheading := lipgloss.NewStyle().Foreground(screen.theme.FaintText).Render(screen.subheading)

	inputWidth := min(max(width-8, 20), 48)
	lines := []string{heading, subheading, ""}
	for index, field := range screen.fields {
		border := screen.theme.BorderColor
		if index == screen.focus {
			border = screen.theme.Accent
		}
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Width(inputWidth).
			Render(field.input.View())
		lines = append(lines, strings.Split(box, "\n")...)
	}

	lines = append(lines, "")
	switch {
	case screen.busy:
		lines = append(lines, lipgloss.NewStyle().Foreground(screen.theme.FaintText).Render(status))
	case screen.hint != "":
		lines = append(lines, lipgloss.NewStyle().Foreground(screen.theme.ErrorForeground).Render(screen.hint))
	default:
		lines = append(lines, "")
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(screen.theme.HelpText).Render(screen.link))

	block := strings.Join(lines, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}
