package tickets

import (
	"fmt"

	"cinema-ticketing/internal/models"
)

type Reason string

const (
	ReasonIncompleteForm      Reason = "incomplete_form"
	ReasonNonPositiveQuantity Reason = "non_positive_quantity"
	ReasonSeatCountMismatch   Reason = "seat_count_mismatch"
	ReasonInvalidSeat         Reason = "invalid_seat"
)

type ValidationError struct {
	Reason  Reason
	Message string
	Seat    string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// validateRequest runs the checks that precede the seat loop and returns the
// parsed seat count. Seat membership is checked per seat by the caller.
func validateRequest(req models.PurchaseRequest) (int, *ValidationError) {
	quantity, ok := parseQuantity(req.SeatCount)
	if req.CustomerName == "" || req.MovieTitle == "" || len(req.Seats) == 0 || !ok {
		return 0, &ValidationError{Reason: ReasonIncompleteForm, Message: "please fill in all fields correctly"}
	}
	if quantity <= 0 {
		return 0, &ValidationError{Reason: ReasonNonPositiveQuantity, Message: "quantity must be greater than zero"}
	}
	if len(req.Seats) != quantity {
		return 0, &ValidationError{
			Reason:  ReasonSeatCountMismatch,
			Message: fmt.Sprintf("you must choose exactly %d seats", quantity),
		}
	}
	return quantity, nil
}

func invalidSeat(seat string) *ValidationError {
	return &ValidationError{
		Reason:  ReasonInvalidSeat,
		Message: fmt.Sprintf("please choose a seat between %s and %s", models.SeatDomain[0], models.SeatDomain[len(models.SeatDomain)-1]),
		Seat:    seat,
	}
}
