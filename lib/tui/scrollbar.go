// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// RenderScrollbar produces a one-column scrollbar for a viewport of
// height lines over totalLines lines of content, scrolled by offset.
// Returns nil when everything fits.
func RenderScrollbar(theme Theme, height, totalLines, offset int) []string {
	if height <= 0 || totalLines <= height {
		return nil
	}

	trackStyle := lipgloss.NewStyle().Foreground(theme.BorderColor)
	thumbStyle := lipgloss.NewStyle().Foreground(theme.Accent)

	thumbSize := max(height*height/totalLines, 1)
	thumbOffset := offset * (height - thumbSize) / (totalLines - height)
	thumbOffset = min(max(thumbOffset, 0), height-thumbSize)

	lines := make([]string, height)
	for index := range lines {
		if index >= thumbOffset && index < thumbOffset+thumbSize {
			lines[index] = thumbStyle.Render("┃")
		} else {
			lines[index] = trackStyle.Render("│")
		}
	}
	return lines
}

// Scroll clamps offset so a viewport of height lines stays within
// totalLines of content.
func Scroll(offset, height, totalLines int) int {
	return min(max(offset, 0), max(totalLines-height, 0))
}
