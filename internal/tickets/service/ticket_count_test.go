package tickets_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cinema-ticketing/internal/models"
	"cinema-ticketing/internal/tickets/db"
)

func TestGetTotalTicketsCount(t *testing.T) {
	mockDB := new(MockTicketDBLayer)
	mockDB.On("GetTotalTicketsCount", mock.Anything).Return(7, nil).Once()
	svc := newService(mockDB, &stubRenderer{}, 123456)

	count, err := svc.GetTotalTicketsCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	mockDB.AssertExpectations(t)
}

func TestGetTicketCountsByMovie(t *testing.T) {
	counts := []models.MovieTicketCount{{MovieTitle: "Frozen", Count: 3}}
	mockDB := new(MockTicketDBLayer)
	mockDB.On("GetTicketCountsByMovie", mock.Anything).Return(counts, nil).Once()
	svc := newService(mockDB, &stubRenderer{}, 123456)

	got, err := svc.GetTicketCountsByMovie(context.Background())
	require.NoError(t, err)
	assert.Equal(t, counts, got)
}

func TestGetTicket(t *testing.T) {
	mockDB := new(MockTicketDBLayer)
	record := &models.TicketRecord{ID: 1, SeatIdentifier: "A4", BarcodeCode: "001234560014"}
	mockDB.On("GetTicketByCode", mock.Anything, "001234560014").Return(record, nil).Once()
	mockDB.On("GetTicketByCode", mock.Anything, "000000000000").Return(nil, db.ErrTicketNotFound).Once()
	svc := newService(mockDB, &stubRenderer{}, 123456)

	got, err := svc.GetTicket(context.Background(), "001234560014")
	require.NoError(t, err)
	assert.Equal(t, "A4", got.SeatIdentifier)

	_, err = svc.GetTicket(context.Background(), "000000000000")
	assert.True(t, errors.Is(err, db.ErrTicketNotFound))
}

func TestListTickets(t *testing.T) {
	mockDB := new(MockTicketDBLayer)
	mockDB.On("ListTickets", mock.Anything, 50).Return([]models.TicketRecord{{ID: 2}, {ID: 1}}, nil).Once()
	svc := newService(mockDB, &stubRenderer{}, 123456)

	list, err := svc.ListTickets(context.Background(), 50)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestListTicketsByCustomer(t *testing.T) {
	mockDB := new(MockTicketDBLayer)
	mockDB.On("ListTicketsByCustomer", mock.Anything, "Caio").
		Return([]models.TicketRecord{{ID: 1, SeatIdentifier: "A3"}, {ID: 4, SeatIdentifier: "A4"}}, nil).Once()
	svc := newService(mockDB, &stubRenderer{}, 123456)

	list, err := svc.ListTicketsByCustomer(context.Background(), "Caio")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A4", list[1].SeatIdentifier)
	mockDB.AssertExpectations(t)
}
