package db_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"cinema-ticketing/internal/models"
	"cinema-ticketing/internal/tickets/db"
)

func setupTestDB(t *testing.T) (*db.DB, *bun.DB) {
	// In-memory SQLite lives as long as its connection, so keep exactly one.
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { bunDB.Close() })

	ticketDB := &db.DB{Bun: bunDB}
	if err := ticketDB.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("Failed to create tickets table: %v", err)
	}
	return ticketDB, bunDB
}

func record(customer, movie, seat, code string) models.TicketRecord {
	return models.TicketRecord{CustomerName: customer, MovieTitle: movie, SeatIdentifier: seat, BarcodeCode: code}
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	ticketDB, bunDB := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, ticketDB.EnsureSchema(ctx))
	require.NoError(t, ticketDB.EnsureSchema(ctx))

	var tables int
	err := bunDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'tickets'").Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 1, tables)
}

func TestCreateTicketAssignsID(t *testing.T) {
	ticketDB, _ := setupTestDB(t)
	ctx := context.Background()

	first := record("Ana", "Batman", "A1", "001234560021")
	second := record("Ana", "Batman", "A2", "006543210022")
	require.NoError(t, ticketDB.CreateTicket(ctx, &first))
	require.NoError(t, ticketDB.CreateTicket(ctx, &second))

	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	stored, err := ticketDB.GetTicketByCode(ctx, "006543210022")
	require.NoError(t, err)
	assert.Equal(t, "Ana", stored.CustomerName)
	assert.Equal(t, "Batman", stored.MovieTitle)
	assert.Equal(t, "A2", stored.SeatIdentifier)
}

func TestGetTicketByCodeNotFound(t *testing.T) {
	ticketDB, _ := setupTestDB(t)

	ticket, err := ticketDB.GetTicketByCode(context.Background(), "000000000000")
	assert.ErrorIs(t, err, db.ErrTicketNotFound)
	assert.Nil(t, ticket)
}

func TestDuplicateCodesAreStored(t *testing.T) {
	ticketDB, _ := setupTestDB(t)
	ctx := context.Background()

	older := record("Ana", "Frozen", "A1", "001111110011")
	newer := record("Bia", "Frozen", "A1", "001111110011")
	require.NoError(t, ticketDB.CreateTicket(ctx, &older))
	require.NoError(t, ticketDB.CreateTicket(ctx, &newer))

	count, err := ticketDB.GetTotalTicketsCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	latest, err := ticketDB.GetTicketByCode(ctx, "001111110011")
	require.NoError(t, err)
	assert.Equal(t, "Bia", latest.CustomerName)
}

func TestCreateTicketsInTransaction(t *testing.T) {
	ticketDB, _ := setupTestDB(t)
	ctx := context.Background()

	tickets := []models.TicketRecord{
		record("Caio", "Superman", "A3", "001234560023"),
		record("Caio", "Superman", "A4", "001234560024"),
	}
	require.NoError(t, ticketDB.CreateTickets(ctx, tickets))
	assert.NotZero(t, tickets[0].ID)
	assert.NotZero(t, tickets[1].ID)

	stored, err := ticketDB.ListTicketsByCustomer(ctx, "Caio")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "A3", stored[0].SeatIdentifier)
	assert.Equal(t, "A4", stored[1].SeatIdentifier)
}

func TestCreateTicketsRollsBack(t *testing.T) {
	ticketDB, bunDB := setupTestDB(t)
	ctx := context.Background()

	existing := record("Dora", "Frozen", "A5", "001234560025")
	require.NoError(t, ticketDB.CreateTicket(ctx, &existing))

	// Reusing an existing primary key makes the second insert fail.
	tickets := []models.TicketRecord{
		record("Eva", "Frozen", "A6", "001234560026"),
		{ID: existing.ID, CustomerName: "Eva", MovieTitle: "Frozen", SeatIdentifier: "A7", BarcodeCode: "001234560027"},
	}
	err := ticketDB.CreateTickets(ctx, tickets)
	assert.Error(t, err)

	count, err := bunDB.NewSelect().Model((*models.TicketRecord)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestListTickets(t *testing.T) {
	ticketDB, _ := setupTestDB(t)
	ctx := context.Background()

	for _, seat := range []string{"A1", "A2", "A3"} {
		rec := record("Ana", "Batman", seat, "00123456002"+seat[1:])
		require.NoError(t, ticketDB.CreateTicket(ctx, &rec))
	}

	all, err := ticketDB.ListTickets(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "A3", all[0].SeatIdentifier)

	limited, err := ticketDB.ListTickets(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := ticketDB.ListTicketsByCustomer(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}
