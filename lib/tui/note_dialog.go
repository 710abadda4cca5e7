// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Dialog chrome: 2 columns border + 2 columns padding horizontally;
// 2 lines border + title + footer vertically.
const (
	noteDialogChromeWidth  = 4
	noteDialogChromeHeight = 4
	noteDialogMinWidth     = 30
	noteDialogMaxWidth     = 72
	noteDialogTextHeight   = 6
)

// NoteDialog is the "Add Note" overlay: a multi-line text buffer with
// an open/closed flag. Opening and closing never touch the buffer;
// callers clear it explicitly with Reset.
type NoteDialog struct {
	// Label names what the note is for, shown in the title.
	Label string

	editor textarea.Model
	open   bool
	theme  Theme
}

// NewNoteDialog creates a closed dialog with an empty buffer.
func NewNoteDialog(theme Theme) NoteDialog {
	editor := textarea.New()
	editor.Placeholder = "Note text"
	editor.ShowLineNumbers = false
	editor.Prompt = ""
	editor.CharLimit = 0
	editor.SetHeight(noteDialogTextHeight)
	editor.SetWidth(noteDialogMaxWidth - noteDialogChromeWidth)
	return NoteDialog{editor: editor, theme: theme}
}

// Open shows the dialog and focuses the editor.
func (dialog *NoteDialog) Open() tea.Cmd {
	dialog.open = true
	return dialog.editor.Focus()
}

// Close hides the dialog. The buffer is kept.
func (dialog *NoteDialog) Close() {
	dialog.open = false
	dialog.editor.Blur()
}

// IsOpen reports whether the dialog is shown.
func (dialog NoteDialog) IsOpen() bool { return dialog.open }

// Value returns the buffer contents.
func (dialog NoteDialog) Value() string { return dialog.editor.Value() }

// Reset clears the buffer.
func (dialog *NoteDialog) Reset() { dialog.editor.Reset() }

// Update forwards a message to the editor. Submit and cancel keys are
// handled by the owning screen before this is called.
func (dialog *NoteDialog) Update(message tea.Msg) tea.Cmd {
	if !dialog.open {
		return nil
	}
	var command tea.Cmd
	dialog.editor, command = dialog.editor.Update(message)
	return command
}

// Render produces the overlay lines and the anchor that centers them on
// a screen of the given size.
func (dialog *NoteDialog) Render(screenWidth, screenHeight int) ([]string, int, int) {
	width := min(max(screenWidth-4, noteDialogMinWidth), noteDialogMaxWidth, screenWidth)
	innerWidth := max(width-noteDialogChromeWidth, 1)
	dialog.editor.SetWidth(innerWidth)
	textHeight := min(noteDialogTextHeight, max(screenHeight-noteDialogChromeHeight, 1))
	dialog.editor.SetHeight(textHeight)

	background := lipgloss.NewStyle().Background(dialog.theme.OverlayBackground)
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(dialog.theme.HeaderForeground).
		Background(dialog.theme.OverlayBackground).
		Render(dialogTitle(dialog.Label))
	footer := lipgloss.NewStyle().
		Foreground(dialog.theme.FaintText).
		Background(dialog.theme.OverlayBackground).
		Render("Ctrl+D submit  Esc cancel")

	lines := []string{padTo(title, innerWidth, background)}
	for _, line := range strings.Split(dialog.editor.View(), "\n") {
		lines = append(lines, padTo(line, innerWidth, background))
	}
	lines = append(lines, padTo(footer, innerWidth, background))

	rendered := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dialog.theme.BorderColor).
		Background(dialog.theme.OverlayBackground).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))

	resultLines := strings.Split(rendered, "\n")
	anchorX, anchorY := CenterAnchor(screenWidth, screenHeight, ansi.StringWidth(resultLines[0]), len(resultLines))
	return resultLines, anchorX, anchorY
}

func dialogTitle(label string) string {
	if label == "" {
		return "Add Note"
	}
	return "Add Note to " + label
}

func padTo(content string, width int, background lipgloss.Style) string {
	content = ansi.Truncate(content, width, "")
	if gap := width - ansi.StringWidth(content); gap > 0 {
		content += background.Render(strings.Repeat(" ", gap))
	}
	return content
}
