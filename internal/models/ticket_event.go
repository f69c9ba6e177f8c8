package models

import (
	"time"

	"github.com/google/uuid"
)

// TicketIssuedEvent is published for every persisted TicketRecord.
type TicketIssuedEvent struct {
	EventID        string    `json:"event_id"`
	TicketID       int64     `json:"ticket_id"`
	CustomerName   string    `json:"customer_name"`
	MovieTitle     string    `json:"movie_title"`
	SeatIdentifier string    `json:"seat_identifier"`
	BarcodeCode    string    `json:"barcode_code"`
	IssuedAt       time.Time `json:"issued_at"`
}

// NewTicketIssuedEvent builds the event for a stored record.
func NewTicketIssuedEvent(record TicketRecord, issuedAt time.Time) TicketIssuedEvent {
	return TicketIssuedEvent{
		EventID:        uuid.New().String(),
		TicketID:       record.ID,
		CustomerName:   record.CustomerName,
		MovieTitle:     record.MovieTitle,
		SeatIdentifier: record.SeatIdentifier,
		BarcodeCode:    record.BarcodeCode,
		IssuedAt:       issuedAt.UTC(),
	}
}
