// Package app wires configuration into a ready TicketService shared by the
// HTTP server, the CLI and the kiosk.
package app

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/uptrace/bun"

	"cinema-ticketing/internal/config"
	"cinema-ticketing/internal/database"
	"cinema-ticketing/internal/events"
	"cinema-ticketing/internal/kafka"
	"cinema-ticketing/internal/logger"
	"cinema-ticketing/internal/rabbitmq"
	"cinema-ticketing/internal/sse"
	"cinema-ticketing/internal/tickets/barcode"
	"cinema-ticketing/internal/tickets/codegen"
	ticket_db "cinema-ticketing/internal/tickets/db"
	ticket_redis "cinema-ticketing/internal/tickets/redis"
	tickets "cinema-ticketing/internal/tickets/service"
)

type App struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            *bun.DB
	Renderer      *barcode.Renderer
	Cache         *ticket_redis.BarcodeCache // nil unless Redis is enabled and reachable
	TicketService *tickets.TicketService
	Events        *sse.TicketEventEmitter

	closers []func() error
}

// New opens the database and the optional collaborators. Only the database
// is required; an unreachable Redis is logged and skipped. The tickets table
// is ensured here, and a failure to do so is logged, not returned.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	bunDB, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	log.Info("DATABASE", fmt.Sprintf("Connected to %s", cfg.Database.Driver))

	a := &App{
		Config:   cfg,
		Logger:   log,
		DB:       bunDB,
		Renderer: barcode.NewRenderer(cfg.Barcode.OutputDir, cfg.Barcode.Width, cfg.Barcode.Height),
	}
	a.closers = append(a.closers, bunDB.Close)

	var renderer tickets.ImageRenderer = a.Renderer
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("REDIS", fmt.Sprintf("Redis at %s unavailable, barcode cache disabled: %v", cfg.Redis.Addr, err))
			client.Close()
		} else {
			a.Cache = ticket_redis.NewBarcodeCache(client, cfg.Redis.CacheTTL, log)
			a.closers = append(a.closers, client.Close)
			renderer = &barcode.CachingRenderer{Renderer: a.Renderer, Cache: a.Cache, Logger: log}
			log.Info("REDIS", fmt.Sprintf("Barcode cache enabled at %s", cfg.Redis.Addr))
		}
	}

	svc := tickets.NewTicketService(&ticket_db.DB{Bun: bunDB}, codegen.NewGenerator(), renderer, log)
	svc.Atomic = cfg.Tickets.AtomicPurchase
	if svc.Atomic {
		log.Info("TICKET", "Atomic purchases enabled: all seats commit in one transaction")
	}

	a.Events = sse.NewTicketEventEmitter()
	fanout := events.Fanout{a.Events}
	if cfg.Kafka.Enabled {
		if err := kafka.EnsureTopicsExist(ctx, cfg.Kafka.Brokers, []string{cfg.Kafka.Topic}, log); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		fanout = append(fanout, producer)
		a.closers = append(a.closers, producer.Close)
		log.Info("KAFKA", fmt.Sprintf("Publishing ticket events to %s", cfg.Kafka.Topic))
	}
	if cfg.RabbitMQ.Enabled {
		fanout = append(fanout, rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, log))
		log.Info("RABBITMQ", fmt.Sprintf("Publishing ticket events to queue %s", cfg.RabbitMQ.Queue))
	}
	svc.Publisher = fanout
	a.TicketService = svc

	if err := svc.EnsureSchema(ctx); err != nil {
		log.Error("DATABASE", err.Error())
	}
	return a, nil
}

// Close releases everything New opened, newest first.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("APP", fmt.Sprintf("close failed: %v", err))
		}
	}
	a.closers = nil
}
