// Package events carries customer lifecycle notifications between the
// customers service and the accounts service over a topic exchange.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/dsuarezv/bankledger/internal/domain"
)

const (
	Exchange   = "customers.exchange"
	Queue      = "customers.q"
	BindingKey = "customer.*"
)

// Publisher sends customer events to the customers exchange.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	log  zerolog.Logger
}

func NewPublisher(url string, log zerolog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("exchange declare: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, log: log}, nil
}

func (p *Publisher) PublishCustomerEvent(ctx context.Context, routingKey string, event domain.CustomerEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	err = p.ch.PublishWithContext(ctx, Exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	p.log.Debug().Str("routing_key", routingKey).Str("customer_id", event.CustomerID).Msg("customer event published")
	return nil
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}
