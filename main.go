package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"cinema-ticketing/internal/app"
	"cinema-ticketing/internal/config"
	"cinema-ticketing/internal/logger"
	"cinema-ticketing/internal/metrics"
	"cinema-ticketing/internal/tickets/qr"
	"cinema-ticketing/internal/tickets/template"
	"cinema-ticketing/internal/tickets/ticket_api"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	log := logger.NewLogger(cfg.Log)
	defer log.Close()

	log.Info("APP", "Starting cinema ticketing service")
	if envErr != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	ctx := context.Background()
	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("APP", fmt.Sprintf("Initialization failed: %v", err))
	}
	defer application.Close()

	var images ticket_api.ImageStore
	if application.Cache != nil {
		images = application.Cache
	}

	handler := ticket_api.NewHandler(
		application.TicketService,
		application.Renderer,
		images,
		template.NewTicketPDFGenerator(cfg.Tickets.FontPath),
		qr.NewQRGenerator(cfg.Tickets.QRSecret),
		log,
	)
	handler.Events = application.Events

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(ticket_api.LogRequests(log))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	handler.RegisterRoutes(r)
	log.Info("ROUTER", "Purchase form at /, ticket API under /api")

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Ticket service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "Ticket service shutdown complete")
	}
}
