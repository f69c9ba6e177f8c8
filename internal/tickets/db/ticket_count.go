package db

import (
	"context"

	"cinema-ticketing/internal/models"
)

// GetTotalTicketsCount returns the number of issued tickets.
func (d *DB) GetTotalTicketsCount(ctx context.Context) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.TicketRecord)(nil)).
		Count(ctx)
}

// GetTicketCountsByMovie groups issued tickets by movie title.
func (d *DB) GetTicketCountsByMovie(ctx context.Context) ([]models.MovieTicketCount, error) {
	counts := []models.MovieTicketCount{}
	err := d.Bun.NewSelect().
		Model((*models.TicketRecord)(nil)).
		Column("movie_title").
		ColumnExpr("COUNT(*) AS count").
		Group("movie_title").
		Order("movie_title").
		Scan(ctx, &counts)
	return counts, err
}
