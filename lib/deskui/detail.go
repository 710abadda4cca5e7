// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/bureau-foundation/helpdesk/lib/deskapi"
	"github.com/bureau-foundation/helpdesk/lib/deskstore"
	"github.com/bureau-foundation/helpdesk/lib/schema/desk"
	"github.com/bureau-foundation/helpdesk/lib/tui"
)

// Text of the detail screen that other code and tests refer to.
const (
	TicketClosed       = "Ticket closed!"
	SomethingWentWrong = "Something went wrong..."
	addNoteLabel       = "Add Note"
	closeTicketLabel   = "Close Ticket"
)

// ViewOptions are the settings shared by the ticket screens.
type ViewOptions struct {
	Theme tui.Theme
	Keys  KeyMap

	// ConfirmClose defers the "Ticket closed!" notification until the
	// service confirms. The app posts it when the result arrives.
	ConfirmClose bool

	// Now is the clock for relative note times. Nil means time.Now.
	Now func() time.Time
}

func (options ViewOptions) now() time.Time {
	if options.Now == nil {
		return time.Now()
	}
	return options.Now()
}

// DetailView is the /ticket/<id> route: one ticket, its notes, the
// "Add Note" dialog and the close action. It reads both stores but
// owns neither; the app applies store messages before forwarding them.
type DetailView struct {
	ticketID  string
	tickets   *deskstore.TicketStore
	notes     *deskstore.NoteStore
	notifier  Notifier
	navigator Navigator
	options   ViewOptions

	dialog   tui.NoteDialog
	spinner  spinner.Model
	spinning bool

	width  int
	height int
	scroll int
}

// NewDetailView creates the detail screen for ticketID.
func NewDetailView(ticketID string, tickets *deskstore.TicketStore, notes *deskstore.NoteStore, notifier Notifier, navigator Navigator, options ViewOptions) *DetailView {
	dialog := tui.NewNoteDialog(options.Theme)
	dialog.Label = ticketID
	return &DetailView{
		ticketID:  ticketID,
		tickets:   tickets,
		notes:     notes,
		notifier:  notifier,
		navigator: navigator,
		options:   options,
		dialog:    dialog,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:     80,
		height:    24,
	}
}

// TicketID is the ticket this view shows.
func (view *DetailView) TicketID() string { return view.ticketID }

// Dialog exposes the note dialog.
func (view *DetailView) Dialog() *tui.NoteDialog { return &view.dialog }

// Init fetches the ticket and its notes, even when the stores already
// hold them, so every visit re-synchronizes with the service.
func (view *DetailView) Init() tea.Cmd {
	return view.refresh()
}

func (view *DetailView) refresh() tea.Cmd {
	commands := []tea.Cmd{
		view.tickets.Fetch(view.ticketID),
		view.notes.FetchByTicket(view.ticketID),
	}
	if !view.spinning {
		view.spinning = true
		commands = append(commands, view.spinner.Tick)
	}
	return tea.Batch(commands...)
}

// Loading reports whether either store has a fetch in flight.
func (view *DetailView) Loading() bool {
	return view.tickets.Status().IsLoading() || view.notes.Status().IsLoading()
}

// Failed reports whether the latest fetch of either store failed.
func (view *DetailView) Failed() bool {
	return view.tickets.Status().IsFailed() || view.notes.Status().IsFailed()
}

// CanModify reports whether the "Add Note" and "Close Ticket"
// affordances are offered: the ticket has loaded and is not closed.
func (view *DetailView) CanModify() bool {
	ticket, ok := view.tickets.Ticket()
	return ok && ticket.ID == view.ticketID && !ticket.IsClosed()
}

func (view *DetailView) Update(message tea.Msg) tea.Cmd {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		view.width, view.height = message.Width, message.Height
		return nil

	case deskstore.TicketFetchedMsg:
		if view.tickets.IsCurrent(message) && message.Err != nil {
			view.notifier.Notify(NotifyError, deskapi.Message(message.Err))
		}
		return nil

	case deskstore.NotesFetchedMsg:
		if view.notes.IsCurrent(message) && message.Err != nil {
			view.notifier.Notify(NotifyError, deskapi.Message(message.Err))
		}
		return nil

	case spinner.TickMsg:
		if !view.Loading() {
			view.spinning = false
			return nil
		}
		var command tea.Cmd
		view.spinner, command = view.spinner.Update(message)
		return command

	case tea.KeyMsg:
		if view.dialog.IsOpen() {
			return view.handleDialogKeys(message)
		}
		return view.handleKeys(message)
	}

	if view.dialog.IsOpen() {
		return view.dialog.Update(message)
	}
	return nil
}

func (view *DetailView) handleKeys(message tea.KeyMsg) tea.Cmd {
	keys := view.options.Keys
	switch {
	case key.Matches(message, keys.Quit):
		return tea.Quit

	case key.Matches(message, keys.Back):
		view.navigator.NavigateTo(RouteTickets)

	case key.Matches(message, keys.Refresh):
		return view.refresh()

	case key.Matches(message, keys.AddNote):
		if view.CanModify() {
			return view.dialog.Open()
		}

	case key.Matches(message, keys.Close):
		if view.CanModify() {
			return view.CloseTicket()
		}

	case key.Matches(message, keys.Up):
		view.scrollBy(-1)
	case key.Matches(message, keys.Down):
		view.scrollBy(1)
	case key.Matches(message, keys.PageUp):
		view.scrollBy(-view.bodyHeight())
	case key.Matches(message, keys.PageDown):
		view.scrollBy(view.bodyHeight())
	case key.Matches(message, keys.Home):
		view.scroll = 0
	case key.Matches(message, keys.End):
		view.scrollBy(len(view.bodyLines(view.width)))
	}
	return nil
}

// handleDialogKeys routes input while the note dialog is open. Ctrl+D
// submits, Esc cancels, everything else edits the buffer.
func (view *DetailView) handleDialogKeys(message tea.KeyMsg) tea.Cmd {
	keys := view.options.Keys
	switch {
	case message.Type == tea.KeyCtrlC:
		return tea.Quit
	case key.Matches(message, keys.CloseNote):
		view.dialog.Close()
		return nil
	case key.Matches(message, keys.SubmitNote):
		return view.SubmitNote()
	default:
		return view.dialog.Update(message)
	}
}

// SubmitNote dispatches the dialog's text as a new note, then clears
// the buffer and closes the dialog without waiting for the service.
// Blank text closes the dialog and sends nothing.
func (view *DetailView) SubmitNote() tea.Cmd {
	text := view.dialog.Value()
	view.dialog.Reset()
	view.dialog.Close()
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return view.notes.Create(text, view.ticketID)
}

// CloseTicket dispatches the close and navigates to the ticket list
// without waiting for the service. Unless ConfirmClose is set the
// success notification is posted immediately.
func (view *DetailView) CloseTicket() tea.Cmd {
	command := view.tickets.Close(view.ticketID)
	if !view.options.ConfirmClose {
		view.notifier.Notify(NotifySuccess, TicketClosed)
	}
	view.navigator.NavigateTo(RouteTickets)
	return command
}

func (view *DetailView) scrollBy(delta int) {
	view.scroll = tui.Scroll(view.scroll+delta, view.bodyHeight(), len(view.bodyLines(view.width)))
}

// bodyHeight is the viewport height: the screen minus the title line
// and the help line.
func (view *DetailView) bodyHeight() int {
	return max(view.height-2, 1)
}

func (view *DetailView) View(width, height int) string {
	theme := view.options.Theme
	bodyHeight := max(height-2, 1)

	title := lipgloss.NewStyle().Foreground(theme.FaintText).Render("← Tickets")
	if view.Loading() {
		title += "  " + view.spinner.View() + lipgloss.NewStyle().Foreground(theme.FaintText).Render(" Loading...")
	}

	body := view.bodyLines(width)
	offset := tui.Scroll(view.scroll, bodyHeight, len(body))
	scrollbar := tui.RenderScrollbar(theme, bodyHeight, len(body), offset)
	contentWidth := width
	if scrollbar != nil {
		contentWidth = max(width-1, 1)
	}

	lines := []string{title}
	for row := range bodyHeight {
		line := ""
		if offset+row < len(body) {
			line = ansi.Truncate(body[offset+row], contentWidth, "")
		}
		if scrollbar != nil {
			if gap := contentWidth - ansi.StringWidth(line); gap > 0 {
				line += strings.Repeat(" ", gap)
			}
			line += scrollbar[row]
		}
		lines = append(lines, line)
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(theme.HelpText).Render(view.help()))

	rendered := strings.Join(lines, "\n")
	if view.dialog.IsOpen() {
		dialogLines, anchorX, anchorY := view.dialog.Render(width, height)
		rendered = tui.SpliceOverlay(rendered, dialogLines, anchorX, anchorY)
	}
	return rendered
}

func (view *DetailView) help() string {
	keys := view.options.Keys
	if view.dialog.IsOpen() {
		return helpLine(keys.SubmitNote, keys.CloseNote)
	}
	return helpLine(keys.Back, keys.Refresh, keys.Down, keys.Up, keys.Quit)
}

// bodyLines renders everything below the title: the ticket header and
// description, the notes in server order, and the affordances when the
// ticket is still open.
func (view *DetailView) bodyLines(screenWidth int) []string {
	theme := view.options.Theme
	width := max(screenWidth-1, 20)
	var lines []string

	if view.Failed() {
		lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(theme.ErrorForeground).Render(SomethingWentWrong), "")
	}

	ticket, hasTicket := view.tickets.Ticket()
	if hasTicket && ticket.ID == view.ticketID {
		lines = append(lines, view.headerLines(ticket, width)...)
	}

	notes := view.notes.Notes()
	if view.notes.TicketID() == view.ticketID && len(notes) > 0 {
		lines = append(lines, "", lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground).Render("Notes"), "")
		now := view.options.now()
		for _, note := range notes {
			lines = append(lines, view.noteLines(note, now, width)...)
			lines = append(lines, "")
		}
	}

	if view.CanModify() {
		lines = append(lines, "", view.affordances())
	}
	return lines
}

func (view *DetailView) headerLines(ticket desk.Ticket, width int) []string {
	theme := view.options.Theme
	bold := lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground)
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)

	lines := []string{
		bold.Render("Ticket ID: "+ticket.ID) + "  " + theme.StatusBadge(ticket.Status),
		faint.Render("Date Submitted: ") + ticket.CreatedAt.Local().Format("1/2/2006"),
		faint.Render("Product: ") + ticket.Product,
		lipgloss.NewStyle().Foreground(theme.BorderColor).Render(strings.Repeat("─", width)),
		bold.Render("Description of Issue"),
	}
	if description := tui.RenderMarkdown(ticket.Description, theme, width); description != "" {
		lines = append(lines, strings.Split(description, "\n")...)
	}
	return lines
}

func (view *DetailView) noteLines(note desk.Note, now time.Time, width int) []string {
	theme := view.options.Theme
	author, border := "Note from You", theme.UserNoteBorder
	if note.IsStaff {
		author, border = "Note from Staff", theme.StaffNoteBorder
	}

	heading := lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground).Render(author)
	if !note.CreatedAt.IsZero() {
		heading += lipgloss.NewStyle().Foreground(theme.FaintText).Render(" · " + humanize.RelTime(note.CreatedAt, now, "ago", "from now"))
	}
	content := heading
	if text := tui.RenderMarkdown(note.Text, theme, max(width-2, 10)); text != "" {
		content += "\n" + text
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(border).
		PaddingLeft(1).
		Render(content)
	return strings.Split(box, "\n")
}

func (view *DetailView) affordances() string {
	theme := view.options.Theme
	keys := view.options.Keys
	button := lipgloss.NewStyle().Bold(true).Foreground(theme.Accent)
	danger := lipgloss.NewStyle().Bold(true).Foreground(theme.ErrorForeground)
	return button.Render("["+keys.AddNote.Help().Key+"] + "+addNoteLabel) +
		"    " + danger.Render("["+keys.Close.Help().Key+"] "+closeTicketLabel)
}
