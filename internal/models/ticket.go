package models

import (
	"github.com/uptrace/bun"
)

// TicketRecord is one issued seat. Rows are inserted once and never updated.
type TicketRecord struct {
	bun.BaseModel `bun:"table:tickets"`

	ID             int64  `bun:"id,pk,autoincrement" json:"id"`
	CustomerName   string `bun:"customer_name,type:varchar(255)" json:"customer_name"`
	MovieTitle     string `bun:"movie_title,type:varchar(255)" json:"movie_title"`
	SeatIdentifier string `bun:"seat_identifier,type:varchar(10)" json:"seat_identifier"`
	BarcodeCode    string `bun:"barcode_code,type:varchar(255)" json:"barcode_code"`
}
