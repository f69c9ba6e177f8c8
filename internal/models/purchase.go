package models

import (
	"fmt"

	"github.com/samber/lo"
)

// PurchaseRequest holds the fields of one checkout action exactly as the
// user entered them. SeatCount stays raw text; parsing it is part of
// validation.
type PurchaseRequest struct {
	CustomerName string   `json:"customer_name"`
	MovieTitle   string   `json:"movie_title"`
	SeatCount    string   `json:"seat_count"`
	Seats        []string `json:"seats"`
}

const (
	SeatRow     = "A"
	SeatsPerRow = 10
	DefaultSeat = "A1"
)

// Movies is the fixed list offered by the purchase form.
var Movies = []string{"O Rei Leão", "Vingadores", "Batman", "Superman", "Frozen"}

// DefaultMovie is preselected on a fresh form.
var DefaultMovie = Movies[0]

// SeatDomain is every seat a ticket can be issued for: A1 through A10.
var SeatDomain = lo.Map(lo.RangeFrom(1, SeatsPerRow), func(n int, _ int) string {
	return fmt.Sprintf("%s%d", SeatRow, n)
})

// IsValidSeat reports whether seat belongs to SeatDomain.
func IsValidSeat(seat string) bool {
	return lo.Contains(SeatDomain, seat)
}

// IsListedMovie reports whether title is one of Movies.
func IsListedMovie(title string) bool {
	return lo.Contains(Movies, title)
}
