package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"cinema-ticketing/internal/models"
)

var ErrTicketNotFound = errors.New("ticket not found")

type DB struct {
	Bun *bun.DB
}

// EnsureSchema creates the tickets table when it is missing. Safe to call
// any number of times.
func (d *DB) EnsureSchema(ctx context.Context) error {
	_, err := d.Bun.NewCreateTable().
		Model((*models.TicketRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create tickets table: %w", err)
	}
	return nil
}

// CreateTicket inserts one row and fills in its surrogate key.
func (d *DB) CreateTicket(ctx context.Context, ticket *models.TicketRecord) error {
	_, err := d.Bun.NewInsert().Model(ticket).Exec(ctx)
	return err
}

// CreateTickets inserts all rows in one transaction. Either every row is
// stored or none is.
func (d *DB) CreateTickets(ctx context.Context, tickets []models.TicketRecord) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for i := range tickets {
			if _, err := tx.NewInsert().Model(&tickets[i]).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert seat %s: %w", tickets[i].SeatIdentifier, err)
			}
		}
		return nil
	})
}

// GetTicketByCode returns the most recent row carrying code. Codes are not
// unique, so older rows with the same code are shadowed.
func (d *DB) GetTicketByCode(ctx context.Context, code string) (*models.TicketRecord, error) {
	var ticket models.TicketRecord
	err := d.Bun.NewSelect().
		Model(&ticket).
		Where("barcode_code = ?", code).
		Order("id DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ListTickets returns the newest tickets first. limit <= 0 means no limit.
func (d *DB) ListTickets(ctx context.Context, limit int) ([]models.TicketRecord, error) {
	tickets := []models.TicketRecord{}
	query := d.Bun.NewSelect().
		Model(&tickets).
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return tickets, nil
}

// ListTicketsByCustomer returns every ticket issued under customerName in
// insertion order.
func (d *DB) ListTicketsByCustomer(ctx context.Context, customerName string) ([]models.TicketRecord, error) {
	tickets := []models.TicketRecord{}
	err := d.Bun.NewSelect().
		Model(&tickets).
		Where("customer_name = ?", customerName).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tickets, nil
}
