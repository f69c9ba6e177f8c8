package tickets

import (
	"context"
	"fmt"

	"cinema-ticketing/internal/models"
)

// GetTotalTicketsCount returns the number of issued tickets.
func (s *TicketService) GetTotalTicketsCount(ctx context.Context) (int, error) {
	return s.DB.GetTotalTicketsCount(ctx)
}

// GetTicketCountsByMovie returns issued tickets grouped per movie title.
func (s *TicketService) GetTicketCountsByMovie(ctx context.Context) ([]models.MovieTicketCount, error) {
	return s.DB.GetTicketCountsByMovie(ctx)
}

func (s *TicketService) GetTicket(ctx context.Context, code string) (*models.TicketRecord, error) {
	ticket, err := s.DB.GetTicketByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("ticket %s: %w", code, err)
	}
	return ticket, nil
}

// ListTicketsByCustomer returns the tickets issued under an exact customer
// name, oldest first.
func (s *TicketService) ListTicketsByCustomer(ctx context.Context, customerName string) ([]models.TicketRecord, error) {
	return s.DB.ListTicketsByCustomer(ctx, customerName)
}

func (s *TicketService) ListTickets(ctx context.Context, limit int) ([]models.TicketRecord, error) {
	return s.DB.ListTickets(ctx, limit)
}
