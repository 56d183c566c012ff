package events

import (
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/dsuarezv/bankledger/internal/domain"
)

// Listener consumes customer events from the customers queue and keeps
// the cache current. Start launches the consumer goroutine; Close tears
// down the connection, which ends it.
type Listener struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	cache   *CustomerCache
	log     zerolog.Logger
	started bool
	done    chan struct{}
}

func NewListener(url string, cache *CustomerCache, log zerolog.Logger) (*Listener, error) {
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
	if _, err := ch.QueueDeclare(Queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(Queue, BindingKey, Exchange, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("queue bind: %w", err)
	}

	return &Listener{
		conn:  conn,
		ch:    ch,
		cache: cache,
		log:   log,
		done:  make(chan struct{}),
	}, nil
}

// Start begins consuming. Malformed messages are logged and dropped.
func (l *Listener) Start() error {
	deliveries, err := l.ch.Consume(Queue, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	l.started = true

	go func() {
		defer close(l.done)
		for d := range deliveries {
			var event domain.CustomerEvent
			if err := json.Unmarshal(d.Body, &event); err != nil {
				l.log.Warn().Err(err).Str("routing_key", d.RoutingKey).Msg("dropping malformed customer event")
				continue
			}
			l.cache.Put(event)
			l.log.Info().
				Str("routing_key", d.RoutingKey).
				Str("customer_id", event.CustomerID).
				Bool("status", event.Status).
				Msg("customer event received")
		}
	}()
	return nil
}

// Cache exposes the existence query backed by this listener.
func (l *Listener) Cache() *CustomerCache {
	return l.cache
}

func (l *Listener) Close() error {
	err := l.conn.Close()
	if l.started {
		<-l.done
	}
	return err
}
