// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ToastKind selects a toast's color and icon.
type ToastKind int

const (
	ToastSuccess ToastKind = iota
	ToastError
)

// Toast is one visible notification.
type Toast struct {
	ID      uint64
	Kind    ToastKind
	Message string
}

const toastMaxWidth = 48

// RenderToasts draws toasts as a right-aligned stack in the top-right
// corner of view, newest at the bottom.
func RenderToasts(view string, toasts []Toast, theme Theme, screenWidth int) string {
	row := 0
	for _, toast := range toasts {
		lines := renderToast(toast, theme)
		if len(lines) == 0 {
			continue
		}
		anchorX := max(screenWidth-ansi.StringWidth(lines[0])-1, 0)
		view = SpliceOverlay(view, lines, anchorX, row)
		row += len(lines)
	}
	return view
}

func renderToast(toast Toast, theme Theme) []string {
	color, icon := theme.SuccessForeground, "✓"
	if toast.Kind == ToastError {
		color, icon = theme.ErrorForeground, "✗"
	}
	message := ansi.Wordwrap(toast.Message, toastMaxWidth-2, "")
	rendered := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Foreground(theme.OverlayForeground).
		Background(theme.OverlayBackground).
		Padding(0, 1).
		Render(lipgloss.NewStyle().Foreground(color).Background(theme.OverlayBackground).Render(icon) +
			lipgloss.NewStyle().Background(theme.OverlayBackground).Render(" ") + message)
	return strings.Split(rendered, "\n")
}
