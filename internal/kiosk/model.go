// Package kiosk is the terminal purchase form. It drives the same issuance
// routine as the HTTP form and shows each barcode as a block of bars.
package kiosk

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cinema-ticketing/internal/form"
	"cinema-ticketing/internal/models"
	tickets "cinema-ticketing/internal/tickets/service"
)

type Issuer interface {
	IssueTickets(ctx context.Context, req models.PurchaseRequest, surface tickets.Surface) (*tickets.IssueResult, error)
}

const (
	focusName = iota
	focusMovie
	focusQuantity
	focusFirstSeat
)

const barHeight = 3

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Width(20)
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	buttonStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4")).Padding(0, 2)
	errorBox     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("9")).Padding(0, 1)
	infoBox      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("10")).Padding(0, 1)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type Model struct {
	ctx    context.Context
	issuer Issuer
	keys   KeyMap

	state    *form.AppState
	name     textinput.Model
	quantity textinput.Model
	focus    int

	// pending notifications; the first one is shown as a modal
	notes []notification
	shown []shownBarcode
}

func NewModel(ctx context.Context, issuer Issuer) Model {
	name := textinput.New()
	name.Placeholder = "Customer name"
	name.CharLimit = 255
	name.Focus()

	quantity := textinput.New()
	quantity.Placeholder = "0"
	quantity.CharLimit = len(strconv.Itoa(form.MaxSeatSelectors))

	return Model{
		ctx:      ctx,
		issuer:   issuer,
		keys:     DefaultKeyMap,
		state:    form.NewAppState(),
		name:     name,
		quantity: quantity,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) submitIndex() int {
	return focusFirstSeat + len(m.state.Draft.Seats)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if key.Matches(keyMsg, m.keys.Quit) {
		return m, tea.Quit
	}

	if len(m.notes) > 0 {
		if key.Matches(keyMsg, m.keys.Dismiss) {
			m.notes = m.notes[1:]
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Next):
		return m.setFocus(m.focus + 1), nil
	case key.Matches(keyMsg, m.keys.Previous):
		return m.setFocus(m.focus - 1), nil
	}

	switch {
	case m.focus == focusName:
		if key.Matches(keyMsg, m.keys.Submit) {
			return m.setFocus(m.focus + 1), nil
		}
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(keyMsg)
		m.state.Draft.CustomerName = m.name.Value()
		return m, cmd

	case m.focus == focusMovie:
		switch {
		case key.Matches(keyMsg, m.keys.Left):
			m.state.CycleMovie(-1)
		case key.Matches(keyMsg, m.keys.Right):
			m.state.CycleMovie(1)
		case key.Matches(keyMsg, m.keys.Submit):
			return m.setFocus(m.focus + 1), nil
		}
		return m, nil

	case m.focus == focusQuantity:
		if key.Matches(keyMsg, m.keys.Submit) {
			return m.setFocus(m.focus + 1), nil
		}
		before := m.quantity.Value()
		var cmd tea.Cmd
		m.quantity, cmd = m.quantity.Update(keyMsg)
		if m.quantity.Value() != before {
			// Every edit rebuilds the seat pickers, like typing in the desktop form.
			if err := m.state.SetQuantity(m.quantity.Value()); err != nil {
				m.notes = append(m.notes, notification{isError: true, title: tickets.TitleError, message: err.Error()})
			}
		}
		return m, cmd

	case m.focus < m.submitIndex():
		seat := m.focus - focusFirstSeat
		switch {
		case key.Matches(keyMsg, m.keys.Left):
			_ = m.state.CycleSeat(seat, -1)
		case key.Matches(keyMsg, m.keys.Right):
			_ = m.state.CycleSeat(seat, 1)
		case key.Matches(keyMsg, m.keys.Submit):
			return m.setFocus(m.focus + 1), nil
		}
		return m, nil

	default:
		if key.Matches(keyMsg, m.keys.Submit) {
			return m.submit(), nil
		}
		return m, nil
	}
}

func (m Model) setFocus(focus int) Model {
	last := m.submitIndex()
	switch {
	case focus < 0:
		focus = last
	case focus > last:
		focus = 0
	}
	m.focus = focus

	m.name.Blur()
	m.quantity.Blur()
	switch focus {
	case focusName:
		m.name.Focus()
	case focusQuantity:
		m.quantity.Focus()
	}
	return m
}

// submit runs issuance synchronously with the values on screen.
func (m Model) submit() Model {
	surface := &terminalSurface{}
	_, _ = m.issuer.IssueTickets(m.ctx, m.state.Request(), surface)
	m.notes = append(m.notes, surface.notes...)
	m.shown = append(m.shown, surface.shown...)
	return m
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Cinema Ticket Purchase Simulator"))
	b.WriteString("\n")

	b.WriteString(m.row(focusName, "Customer name:", m.name.View()))
	b.WriteString(m.row(focusMovie, "Movie:", "◀ "+m.state.Draft.MovieTitle+" ▶"))
	b.WriteString(m.row(focusQuantity, "Number of tickets:", m.quantity.View()))
	for i, sel := range m.state.Draft.Seats {
		b.WriteString(m.row(focusFirstSeat+i, fmt.Sprintf("Seat %d:", i+1), "◀ "+sel.Seat+" ▶"))
	}

	button := buttonStyle.Render("Complete purchase")
	if m.focus == m.submitIndex() {
		button = focusedStyle.Render("> ") + button
	} else {
		button = "  " + button
	}
	b.WriteString("\n" + button + "\n")

	for _, s := range m.shown {
		b.WriteString("\n" + s.caption + "\n")
		for i := 0; i < barHeight; i++ {
			b.WriteString(s.bars + "\n")
		}
	}

	if len(m.notes) > 0 {
		note := m.notes[0]
		box := infoBox
		if note.isError {
			box = errorBox
		}
		b.WriteString("\n" + box.Render(note.title+"\n"+note.message) + "\n")
		b.WriteString(helpStyle.Render("esc: dismiss") + "\n")
	} else {
		b.WriteString("\n" + helpStyle.Render("tab/↑↓: move • ←/→: change • enter: confirm • ctrl+c: quit") + "\n")
	}
	return b.String()
}

func (m Model) row(focus int, label, value string) string {
	prefix := "  "
	if m.focus == focus {
		prefix = focusedStyle.Render("> ")
	}
	return prefix + labelStyle.Render(label) + value + "\n"
}
