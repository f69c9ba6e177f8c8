// Package form holds the state behind a purchase form: the fields the
// customer is editing and one seat selector per ticket.
package form

import (
	"errors"
	"strconv"
	"strings"

	"cinema-ticketing/internal/models"
)

// MaxSeatSelectors bounds the quantity the form will build pickers for,
// the largest a four digit quantity field can hold.
const MaxSeatSelectors = 9999

var (
	ErrSelectorRefresh     = errors.New("error updating seat selectors")
	ErrNonPositiveQuantity = errors.New("quantity must be greater than zero")
	ErrNoSuchSelector      = errors.New("no such seat selector")
)

// SeatSelector is one seat picker; Seat is always a member of the seat domain.
type SeatSelector struct {
	Seat string
}

type PurchaseDraft struct {
	CustomerName string
	MovieTitle   string
	Quantity     string
	Seats        []SeatSelector
}

type AppState struct {
	Draft PurchaseDraft
}

// NewAppState returns a fresh form: default movie, no seat selectors.
func NewAppState() *AppState {
	return &AppState{Draft: PurchaseDraft{MovieTitle: models.DefaultMovie}}
}

// RefreshSeatSelectors rebuilds one selector per ticket from the typed
// quantity, each defaulting to the first seat. Quantities above
// MaxSeatSelectors are refused like unparsable ones. On error the current
// selectors are left alone.
func (s *AppState) RefreshSeatSelectors() error {
	n, err := strconv.Atoi(strings.TrimSpace(s.Draft.Quantity))
	if err != nil {
		return ErrSelectorRefresh
	}
	if n <= 0 {
		return ErrNonPositiveQuantity
	}
	if n > MaxSeatSelectors {
		return ErrSelectorRefresh
	}
	selectors := make([]SeatSelector, n)
	for i := range selectors {
		selectors[i] = SeatSelector{Seat: models.DefaultSeat}
	}
	s.Draft.Seats = selectors
	return nil
}

func (s *AppState) SetQuantity(quantity string) error {
	s.Draft.Quantity = quantity
	return s.RefreshSeatSelectors()
}

// SetSeat picks seat for selector i. Seats outside the domain are refused.
func (s *AppState) SetSeat(i int, seat string) error {
	if i < 0 || i >= len(s.Draft.Seats) {
		return ErrNoSuchSelector
	}
	if !models.IsValidSeat(seat) {
		return errors.New("please choose a seat between A1 and A10")
	}
	s.Draft.Seats[i].Seat = seat
	return nil
}

// CycleSeat moves selector i by delta positions through the seat domain,
// wrapping at both ends.
func (s *AppState) CycleSeat(i, delta int) error {
	if i < 0 || i >= len(s.Draft.Seats) {
		return ErrNoSuchSelector
	}
	s.Draft.Seats[i].Seat = cycle(models.SeatDomain, s.Draft.Seats[i].Seat, delta)
	return nil
}

func (s *AppState) CycleMovie(delta int) {
	s.Draft.MovieTitle = cycle(models.Movies, s.Draft.MovieTitle, delta)
}

// Request snapshots the current field values for submission.
func (s *AppState) Request() models.PurchaseRequest {
	seats := make([]string, len(s.Draft.Seats))
	for i, sel := range s.Draft.Seats {
		seats[i] = sel.Seat
	}
	return models.PurchaseRequest{
		CustomerName: s.Draft.CustomerName,
		MovieTitle:   s.Draft.MovieTitle,
		SeatCount:    s.Draft.Quantity,
		Seats:        seats,
	}
}

func cycle(options []string, current string, delta int) string {
	idx := 0
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	n := len(options)
	return options[((idx+delta)%n+n)%n]
}
