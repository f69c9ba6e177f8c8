// Package rabbitmq publishes ticket events to a durable RabbitMQ queue.
// Each publish opens its own connection; failures are returned for the
// caller to log.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"cinema-ticketing/internal/logger"
	"cinema-ticketing/internal/models"
)

// Channel is the subset of *amqp.Channel used for publishing.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Dialer opens a channel plus the connection that owns it.
type Dialer func(url string) (Channel, io.Closer, error)

type Publisher struct {
	URL    string
	Queue  string
	Dial   Dialer
	Logger *logger.Logger
}

func NewPublisher(url, queue string, log *logger.Logger) *Publisher {
	return &Publisher{URL: url, Queue: queue, Dial: dialAMQP, Logger: log}
}

func dialAMQP(url string) (Channel, io.Closer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return ch, conn, nil
}

// PublishTicketIssued sends event to the configured queue through the
// default exchange. Messages are persistent.
func (p *Publisher) PublishTicketIssued(ctx context.Context, event models.TicketIssuedEvent) error {
	ch, conn, err := p.Dial(p.URL)
	if err != nil {
		return fmt.Errorf("rabbitmq: dial failed: %w", err)
	}
	defer func() { _ = conn.Close() }()
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.Queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return fmt.Errorf("rabbitmq: queue declare failed: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event failed: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Type:         "ticket_issued",
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq: publish failed: %w", err)
	}

	p.Logger.LogEvent("RABBITMQ", p.Queue, fmt.Sprintf("ticket %s seat %s", event.BarcodeCode, event.SeatIdentifier))
	return nil
}
