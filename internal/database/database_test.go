package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/dialect"

	"cinema-ticketing/internal/config"
)

func TestOpenSQLiteInMemory(t *testing.T) {
	db, err := Open(context.Background(), config.DatabaseConfig{Driver: DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, dialect.SQLite, db.Dialect().Name())

	var one int
	require.NoError(t, db.QueryRowContext(context.Background(), "SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, dialect.PG, dialectFor(DriverPostgres).Name())
	assert.Equal(t, dialect.MySQL, dialectFor(DriverMySQL).Name())
	assert.Equal(t, dialect.SQLite, dialectFor(DriverSQLite).Name())
}
