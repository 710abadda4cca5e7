// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/helpdesk/lib/deskapi"
	"github.com/bureau-foundation/helpdesk/lib/deskstore"
	"github.com/bureau-foundation/helpdesk/lib/schema/desk"
	"github.com/bureau-foundation/helpdesk/lib/tui"
)

// ListView is the /tickets route: the user's tickets with a fuzzy
// filter. Enter opens the selected ticket.
type ListView struct {
	tickets   *deskstore.TicketStore
	notifier  Notifier
	navigator Navigator
	options   ViewOptions

	filter    textinput.Model
	filtering bool
	cursor    int
	offset    int

	spinner  spinner.Model
	spinning bool
	height   int
}

// NewListView creates the ticket list screen.
func NewListView(tickets *deskstore.TicketStore, notifier Notifier, navigator Navigator, options ViewOptions) *ListView {
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter"
	return &ListView{
		tickets:   tickets,
		notifier:  notifier,
		navigator: navigator,
		options:   options,
		filter:    filter,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		height:    24,
	}
}

func (list *ListView) Init() tea.Cmd {
	return list.refresh()
}

func (list *ListView) refresh() tea.Cmd {
	commands := []tea.Cmd{list.tickets.FetchAll()}
	if !list.spinning {
		list.spinning = true
		commands = append(commands, list.spinner.Tick)
	}
	return tea.Batch(commands...)
}

// Visible returns the tickets that pass the filter, best match first.
// Without a filter the store's order is kept.
func (list *ListView) Visible() []desk.Ticket {
	tickets := list.tickets.Tickets()
	pattern := []rune(strings.TrimSpace(list.filter.Value()))
	if len(pattern) == 0 {
		return tickets
	}

	type scored struct {
		ticket desk.Ticket
		score  int
	}
	var matches []scored
	for _, ticket := range tickets {
		text := ticket.Product + " " + ticket.Description + " " + string(ticket.Status)
		if result := tui.FuzzyMatch(text, pattern, nil); result.Matched {
			matches = append(matches, scored{ticket: ticket, score: result.Score})
		}
	}
	slices.SortStableFunc(matches, func(a, b scored) int { return b.score - a.score })

	visible := make([]desk.Ticket, len(matches))
	for index, match := range matches {
		visible[index] = match.ticket
	}
	return visible
}

// Selected returns the ticket under the cursor.
func (list *ListView) Selected() (desk.Ticket, bool) {
	visible := list.Visible()
	if list.cursor < 0 || list.cursor >= len(visible) {
		return desk.Ticket{}, false
	}
	return visible[list.cursor], true
}

func (list *ListView) Update(message tea.Msg) tea.Cmd {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		list.height = message.Height
		return nil

	case deskstore.TicketsListedMsg:
		if list.tickets.IsCurrentList(message) && message.Err != nil {
			list.notifier.Notify(NotifyError, deskapi.Message(message.Err))
		}
		list.clampCursor()
		return nil

	case deskstore.TicketClosedMsg:
		list.clampCursor()
		return nil

	case spinner.TickMsg:
		if !list.tickets.ListStatus().IsLoading() {
			list.spinning = false
			return nil
		}
		var command tea.Cmd
		list.spinner, command = list.spinner.Update(message)
		return command

	case tea.KeyMsg:
		if list.filtering {
			return list.handleFilterKeys(message)
		}
		return list.handleKeys(message)
	}
	return nil
}

func (list *ListView) handleFilterKeys(message tea.KeyMsg) tea.Cmd {
	keys := list.options.Keys
	switch {
	case message.Type == tea.KeyCtrlC:
		return tea.Quit
	case key.Matches(message, keys.FilterClear):
		list.filter.SetValue("")
		list.filter.Blur()
		list.filtering = false
		list.cursor = 0
		return nil
	case message.Type == tea.KeyEnter:
		list.filter.Blur()
		list.filtering = false
		return nil
	}
	var command tea.Cmd
	list.filter, command = list.filter.Update(message)
	list.cursor = 0
	list.offset = 0
	return command
}

func (list *ListView) handleKeys(message tea.KeyMsg) tea.Cmd {
	keys := list.options.Keys
	switch {
	case key.Matches(message, keys.Quit):
		return tea.Quit
	case key.Matches(message, keys.FilterActivate):
		list.filtering = true
		return list.filter.Focus()
	case key.Matches(message, keys.FilterClear):
		list.filter.SetValue("")
		list.cursor = 0
	case key.Matches(message, keys.Refresh):
		return list.refresh()
	case key.Matches(message, keys.Open):
		if ticket, ok := list.Selected(); ok {
			list.navigator.NavigateTo(TicketRoute(ticket.ID))
		}
	case key.Matches(message, keys.Up):
		list.cursor--
	case key.Matches(message, keys.Down):
		list.cursor++
	case key.Matches(message, keys.PageUp):
		list.cursor -= list.rowsHeight()
	case key.Matches(message, keys.PageDown):
		list.cursor += list.rowsHeight()
	case key.Matches(message, keys.Home):
		list.cursor = 0
	case key.Matches(message, keys.End):
		list.cursor = len(list.Visible()) - 1
	}
	list.clampCursor()
	return nil
}

func (list *ListView) clampCursor() {
	count := len(list.Visible())
	list.cursor = min(max(list.cursor, 0), max(count-1, 0))
	rows := list.rowsHeight()
	if list.cursor < list.offset {
		list.offset = list.cursor
	}
	if list.cursor >= list.offset+rows {
		list.offset = list.cursor - rows + 1
	}
	list.offset = tui.Scroll(list.offset, rows, count)
}

// rowsHeight is the screen minus the title, column header, filter and
// help lines.
func (list *ListView) rowsHeight() int {
	return max(list.height-4, 1)
}

func (list *ListView) View(width, height int) string {
	theme := list.options.Theme
	rows := max(height-4, 1)

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground).Render("Tickets")
	status := list.tickets.ListStatus()
	switch {
	case status.IsLoading():
		title += "  " + list.spinner.View() + lipgloss.NewStyle().Foreground(theme.FaintText).Render(" Loading...")
	case status.IsFailed():
		title += "  " + lipgloss.NewStyle().Foreground(theme.ErrorForeground).Render(SomethingWentWrong)
	}

	visible := list.Visible()
	header := lipgloss.NewStyle().Foreground(theme.FaintText).Render(fmt.Sprintf("%-10s  %-20s  %s", "Date", "Product", "Status"))
	lines := []string{title, header}

	offset := tui.Scroll(list.offset, rows, len(visible))
	scrollbar := tui.RenderScrollbar(theme, rows, len(visible), offset)
	rowWidth := width
	if scrollbar != nil {
		rowWidth = max(width-1, 1)
	}
	for row := range rows {
		line := ""
		index := offset + row
		if index < len(visible) {
			line = list.renderRow(visible[index], index == list.cursor, rowWidth)
		} else if index == 0 && status.Phase == deskstore.PhaseSucceeded {
			line = lipgloss.NewStyle().Foreground(theme.FaintText).Render("No tickets")
		}
		if scrollbar != nil {
			if gap := rowWidth - ansi.StringWidth(line); gap > 0 {
				line += strings.Repeat(" ", gap)
			}
			line += scrollbar[row]
		}
		lines = append(lines, line)
	}

	if list.filtering || list.filter.Value() != "" {
		lines = append(lines, list.filter.View())
	} else {
		lines = append(lines, "")
	}
	keys := list.options.Keys
	lines = append(lines, lipgloss.NewStyle().Foreground(theme.HelpText).Render(
		helpLine(keys.Open, keys.FilterActivate, keys.Refresh, keys.Down, keys.Up, keys.Quit)))
	return strings.Join(lines, "\n")
}

func (list *ListView) renderRow(ticket desk.Ticket, selected bool, width int) string {
	theme := list.options.Theme
	product := ansi.Truncate(ticket.Product, 20, "…")
	text := fmt.Sprintf("%-10s  %s%s  ", ticket.CreatedAt.Local().Format("1/2/2006"), product, strings.Repeat(" ", max(20-ansi.StringWidth(product), 0)))
	style := lipgloss.NewStyle().Foreground(theme.NormalText)
	if selected {
		style = style.Background(theme.SelectedBackground).Foreground(theme.SelectedForeground)
	}
	line := style.Render(text) + theme.StatusBadge(ticket.Status)
	return ansi.Truncate(line, width, "")
}
