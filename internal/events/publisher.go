// Package events publishes committed reservation lifecycle events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"

	"github.com/streadway/amqp"
)

// channel is the slice of *amqp.Channel the publisher uses.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
}

// NewAMQPPublisher dials the broker and declares a durable topic exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	logger.Info("Connected to RabbitMQ", "exchange", exchange)
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func newPublisherOnChannel(ch channel, exchange string) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, exchange: exchange}
}

// Publish routes evt by its type, e.g. "reservation.confirmed".
func (p *AMQPPublisher) Publish(ctx context.Context, evt domain.ReservationEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    evt.ID,
		Timestamp:    evt.OccurredAt,
		Type:         string(evt.Type),
		Body:         body,
	}

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()
	logger.ExternalServiceCall("rabbitmq", "publish", "exchange", p.exchange, "key", evt.Type)
	if err := p.ch.Publish(p.exchange, string(evt.Type), false, false, msg); err != nil {
		logger.ExternalServiceResult("rabbitmq", "publish", err)
		return fmt.Errorf("publish %s: %w", evt.Type, err)
	}
	logger.ExternalServiceResult("rabbitmq", "publish", nil, "message_id", evt.ID)
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NoopPublisher drops every event. Used when events are disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, evt domain.ReservationEvent) error {
	logger.DebugContext(ctx, "Event publishing disabled, dropping event", "event", evt.Type, "id", evt.ID)
	return nil
}

func (NoopPublisher) Close() error { return nil }
