package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"cinema-ticketing/internal/logger"
	"cinema-ticketing/internal/models"
)

// MessageWriter is the part of *kafka.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	Writer MessageWriter
	Topic  string
	Logger *logger.Logger
}

func NewProducer(brokers []string, topic string, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Producer{Writer: writer, Topic: topic, Logger: log}
}

// PublishTicketIssued streams the ticket issued event to Kafka, keyed by
// barcode so every event for a code lands on the same partition.
func (p *Producer) PublishTicketIssued(ctx context.Context, event models.TicketIssuedEvent) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.Writer.WriteMessages(ctx,
		kafka.Message{
			Key:   []byte(event.BarcodeCode),
			Value: msgBytes,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte("ticket_issued")},
				{Key: "event_id", Value: []byte(event.EventID)},
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish ticket issued event: %w", err)
	}

	p.Logger.LogEvent("KAFKA", p.Topic, fmt.Sprintf("ticket %s seat %s", event.BarcodeCode, event.SeatIdentifier))
	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
