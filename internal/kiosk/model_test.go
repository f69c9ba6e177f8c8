package kiosk

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinema-ticketing/internal/models"
	"cinema-ticketing/internal/tickets/barcode"
	tickets "cinema-ticketing/internal/tickets/service"
)

// stubIssuer records requests and shows one barcode per seat.
type stubIssuer struct {
	requests []models.PurchaseRequest
	fail     string
}

func (s *stubIssuer) IssueTickets(ctx context.Context, req models.PurchaseRequest, surface tickets.Surface) (*tickets.IssueResult, error) {
	s.requests = append(s.requests, req)
	if s.fail != "" {
		surface.Error(tickets.TitleError, s.fail)
		return &tickets.IssueResult{}, &tickets.ValidationError{Message: s.fail}
	}
	for _, seat := range req.Seats {
		path := "/tmp/" + barcode.FileName("00123456002"+seat[1:2])
		_ = surface.Show(ctx, path, "Barcode for seat "+seat)
		surface.Info(tickets.TitleSuccess, "barcode generated for seat "+seat)
	}
	return &tickets.IssueResult{}, nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

var (
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	left  = tea.KeyMsg{Type: tea.KeyLeft}
	right = tea.KeyMsg{Type: tea.KeyRight}
)

func TestNewModel(t *testing.T) {
	m := NewModel(context.Background(), &stubIssuer{})

	assert.Equal(t, focusName, m.focus)
	assert.Equal(t, "O Rei Leão", m.state.Draft.MovieTitle)
	assert.Contains(t, m.View(), "Cinema Ticket Purchase Simulator")
	assert.Equal(t, focusFirstSeat, m.submitIndex())
}

func TestTypingQuantityRefreshesSeats(t *testing.T) {
	m := NewModel(context.Background(), &stubIssuer{})

	m = send(t, m, tab, tab, runes("3"))

	require.Len(t, m.state.Draft.Seats, 3)
	assert.Equal(t, "3", m.state.Draft.Quantity)
	assert.Contains(t, m.View(), "Seat 3:")
	assert.Empty(t, m.notes)
}

func TestQuantityErrorsAreModal(t *testing.T) {
	m := NewModel(context.Background(), &stubIssuer{})

	m = send(t, m, tab, tab, runes("0"))
	require.Len(t, m.notes, 1)
	assert.Equal(t, "quantity must be greater than zero", m.notes[0].message)
	assert.Contains(t, m.View(), "quantity must be greater than zero")

	// Keys other than dismiss are swallowed while the modal is open.
	m = send(t, m, runes("5"))
	assert.Equal(t, "0", m.quantity.Value())

	m = send(t, m, esc, tea.KeyMsg{Type: tea.KeyBackspace}, runes("x"))
	require.Len(t, m.notes, 1)
	assert.Equal(t, "error updating seat selectors", m.notes[0].message)
	assert.Empty(t, m.quantity.Value())
}

func TestMovieAndSeatPickers(t *testing.T) {
	m := NewModel(context.Background(), &stubIssuer{})

	m = send(t, m, tab, right, right)
	assert.Equal(t, "Batman", m.state.Draft.MovieTitle)

	m = send(t, m, tab, runes("2"), tab, left)
	assert.Equal(t, "A10", m.state.Draft.Seats[0].Seat)

	m = send(t, m, tab, right, right)
	assert.Equal(t, "A3", m.state.Draft.Seats[1].Seat)
}

func TestSubmitIssuesAndShowsBarcodes(t *testing.T) {
	issuer := &stubIssuer{}
	m := NewModel(context.Background(), issuer)

	m = send(t, m, runes("Ana"), tab, tab, runes("2"), tab, tab, right, tab)
	require.Equal(t, m.submitIndex(), m.focus)
	m = send(t, m, enter)

	require.Len(t, issuer.requests, 1)
	assert.Equal(t, models.PurchaseRequest{
		CustomerName: "Ana",
		MovieTitle:   "O Rei Leão",
		SeatCount:    "2",
		Seats:        []string{"A1", "A2"},
	}, issuer.requests[0])

	require.Len(t, m.shown, 2)
	view := m.View()
	assert.Contains(t, view, "Barcode for seat A2")
	assert.Contains(t, view, "█")
	assert.Len(t, m.notes, 2)

	m = send(t, m, esc, enter)
	assert.Empty(t, m.notes)
}

func TestSubmitValidationError(t *testing.T) {
	issuer := &stubIssuer{fail: "please fill in all fields correctly"}
	m := NewModel(context.Background(), issuer)

	// Straight to submit: no quantity, no seats.
	m = send(t, m, tab, tab, tab, enter)

	require.Len(t, issuer.requests, 1)
	assert.Empty(t, issuer.requests[0].Seats)
	require.Len(t, m.notes, 1)
	assert.True(t, m.notes[0].isError)
	assert.Empty(t, m.shown)
}

func TestFocusWraps(t *testing.T) {
	m := NewModel(context.Background(), &stubIssuer{})

	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, m.submitIndex(), m.focus)
	m = send(t, m, tab)
	assert.Equal(t, focusName, m.focus)
}

func TestQuit(t *testing.T) {
	m := NewModel(context.Background(), &stubIssuer{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestTerminalSurfaceRejectsUnknownImages(t *testing.T) {
	s := &terminalSurface{}

	assert.Error(t, s.Show(context.Background(), "/tmp/photo.png", "x"))
	require.NoError(t, s.Show(context.Background(), "out/barcode_001234560021.png", "Barcode for seat A1"))
	assert.Equal(t, 95, len([]rune(s.shown[0].bars)))
	assert.True(t, strings.HasPrefix(s.shown[0].bars, "█ █"))
}
