// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/helpdesk/lib/schema/desk"
)

// Theme is the color palette of the desk screens. All colors are ANSI
// 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Ticket status badges.
	StatusNew    lipgloss.Color
	StatusOpen   lipgloss.Color
	StatusClosed lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	// Accent marks focus: the scrollbar thumb, the active input.
	Accent lipgloss.Color

	// Notifications.
	SuccessForeground lipgloss.Color
	ErrorForeground   lipgloss.Color

	// Note authorship.
	StaffNoteBorder lipgloss.Color
	UserNoteBorder  lipgloss.Color

	// Fuzzy filter match highlighting.
	SearchHighlightBackground lipgloss.Color

	LinkForeground lipgloss.Color

	// Dialogs and toasts.
	OverlayForeground lipgloss.Color
	OverlayBackground lipgloss.Color
}

// StatusColor returns the badge color for a ticket status, FaintText
// for unknown values.
func (theme Theme) StatusColor(status desk.Status) lipgloss.Color {
	switch status {
	case desk.StatusNew:
		return theme.StatusNew
	case desk.StatusOpen:
		return theme.StatusOpen
	case desk.StatusClosed:
		return theme.StatusClosed
	default:
		return theme.FaintText
	}
}

// StatusBadge renders a status as a colored, padded badge.
func (theme Theme) StatusBadge(status desk.Status) string {
	return theme.StatusBadgeWith(lipgloss.DefaultRenderer(), status)
}

// StatusBadgeWith renders the badge with renderer's color profile.
func (theme Theme) StatusBadgeWith(renderer *lipgloss.Renderer, status desk.Status) string {
	return renderer.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(theme.StatusColor(status)).
		Padding(0, 1).
		Render(string(status))
}

// DefaultTheme is the built-in scheme for 256-color terminals with a
// dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	StatusNew:    lipgloss.Color("114"), // green
	StatusOpen:   lipgloss.Color("75"),  // blue
	StatusClosed: lipgloss.Color("203"), // muted red

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	Accent:           lipgloss.Color("220"),

	SuccessForeground: lipgloss.Color("114"),
	ErrorForeground:   lipgloss.Color("203"),

	StaffNoteBorder: lipgloss.Color("141"),
	UserNoteBorder:  lipgloss.Color("240"),

	SearchHighlightBackground: lipgloss.Color("58"),

	LinkForeground: lipgloss.Color("75"),

	OverlayForeground: lipgloss.Color("252"),
	OverlayBackground: lipgloss.Color("237"),
}
