// Command ticket-kiosk runs the purchase form in the terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"cinema-ticketing/internal/app"
	"cinema-ticketing/internal/config"
	"cinema-ticketing/internal/kiosk"
	"cinema-ticketing/internal/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// The terminal belongs to the form; logs go to the file when LOG_DIR is set.
	var log *logger.Logger
	if cfg.Log.Dir != "" {
		log = logger.NewLogger(cfg.Log)
		log.SetOutput(io.Discard)
	} else {
		log = logger.NewWithWriter(io.Discard)
	}
	defer log.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ticket-kiosk: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	p := tea.NewProgram(kiosk.NewModel(ctx, application.TicketService), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ticket-kiosk: %v\n", err)
	}
}
