// Command ticket-migrate creates the tickets table if it is missing.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"cinema-ticketing/internal/config"
	"cinema-ticketing/internal/database"
	"cinema-ticketing/internal/logger"
	ticket_db "cinema-ticketing/internal/tickets/db"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.NewWithWriter(os.Stdout)

	ctx := context.Background()
	bunDB, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()

	store := &ticket_db.DB{Bun: bunDB}
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("failed to create tickets table: %v", err))
	}

	count, err := store.GetTotalTicketsCount(ctx)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	log.LogDatabase("ENSURE", "tickets", fmt.Sprintf("table ready on %s, %d rows", cfg.Database.Driver, count))
}
