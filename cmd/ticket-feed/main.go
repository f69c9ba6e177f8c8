// Command ticket-feed prints TicketIssued events from Kafka as they arrive.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"cinema-ticketing/internal/config"
	"cinema-ticketing/internal/kafka"
	"cinema-ticketing/internal/logger"
	"cinema-ticketing/internal/models"
)

func main() {
	var (
		group  string
		topics bool
	)
	pflag.StringVar(&group, "group", "ticket-feed", "consumer group id")
	pflag.BoolVar(&topics, "list-topics", false, "print the broker's topics and exit")
	pflag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.NewWithWriter(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if topics {
		names, err := kafka.ListTopics(ctx, cfg.Kafka.Brokers)
		if err != nil {
			log.Fatal("KAFKA", err.Error())
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, group, log)
	defer consumer.Close()

	log.Info("KAFKA", fmt.Sprintf("Listening on %s as %s", cfg.Kafka.Topic, group))
	err := consumer.Start(ctx, func(event models.TicketIssuedEvent) {
		fmt.Printf("%s  %-20s %-12s %-4s %s\n",
			event.IssuedAt.Format("2006-01-02 15:04:05"), event.CustomerName, event.MovieTitle, event.SeatIdentifier, event.BarcodeCode)
	})
	if err != nil {
		log.Fatal("KAFKA", err.Error())
	}
}
