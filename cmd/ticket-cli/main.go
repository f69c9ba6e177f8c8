// Command ticket-cli issues one purchase from flags and prints what the
// purchase form would have shown.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"cinema-ticketing/internal/app"
	"cinema-ticketing/internal/config"
	"cinema-ticketing/internal/logger"
	"cinema-ticketing/internal/models"
	tickets "cinema-ticketing/internal/tickets/service"
)

type printSurface struct {
	out io.Writer
}

func (s printSurface) Show(_ context.Context, imagePath, caption string) error {
	_, err := fmt.Fprintf(s.out, "%s: %s\n", caption, imagePath)
	return err
}

func (s printSurface) Error(title, message string) {
	fmt.Fprintf(s.out, "[%s] %s\n", title, message)
}

func (s printSurface) Info(title, message string) {
	fmt.Fprintf(s.out, "[%s] %s\n", title, message)
}

func main() {
	os.Exit(run())
}

// run returns 1 on a rejected purchase, 2 on a setup failure and 3 when
// some seat did not get its barcode.
func run() int {
	var (
		name     string
		movie    string
		quantity string
		seats    []string
		verbose  bool
	)
	pflag.StringVar(&name, "name", "", "customer name")
	pflag.StringVar(&movie, "movie", models.DefaultMovie, "movie title")
	pflag.StringVar(&quantity, "quantity", "", "number of seats")
	pflag.StringArrayVar(&seats, "seat", nil, "seat identifier, repeat once per seat (A1..A10)")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
	pflag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	logOut := io.Discard
	if verbose {
		logOut = os.Stderr
	}
	log := logger.NewWithWriter(logOut)

	ctx := context.Background()
	application, err := app.New(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ticket-cli: %v\n", err)
		return 2
	}
	defer application.Close()

	req := models.PurchaseRequest{
		CustomerName: name,
		MovieTitle:   movie,
		SeatCount:    quantity,
		Seats:        seats,
	}
	result, err := application.TicketService.IssueTickets(ctx, req, printSurface{out: os.Stdout})

	var verr *tickets.ValidationError
	switch {
	case errors.As(err, &verr):
		return 1
	case err != nil:
		fmt.Fprintf(os.Stderr, "ticket-cli: %v\n", err)
		return 2
	case len(result.Issued()) < len(result.Outcomes):
		return 3
	}
	return 0
}
