package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/snufix/taskflow/internal/api/metrics"
	"github.com/snufix/taskflow/internal/core/domain"
)

// Exchange is the topic exchange every domain event is published to. The
// routing key is the event type, e.g. "location.updated".
const Exchange = "taskflow.events"

const publishTimeout = 5 * time.Second

// channel is the subset of *amqp091.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

type envelope struct {
	Type       domain.EventType `json:"type"`
	Key        string           `json:"key"`
	OccurredAt time.Time        `json:"occurredAt"`
	Payload    any              `json:"payload,omitempty"`
}

// Publisher implements ports.EventPublisher on a RabbitMQ topic exchange.
// An amqp091 channel is not safe for concurrent publishing, so calls are
// serialised.
type Publisher struct {
	mu   sync.Mutex
	conn *amqp091.Connection
	ch   channel
	log  zerolog.Logger
}

// Dial connects to url and declares the durable topic exchange.
func Dial(url string, log zerolog.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		Exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", Exchange, err)
	}

	log.Info().Str("exchange", Exchange).Msg("connected to rabbitmq")
	return &Publisher{conn: conn, ch: ch, log: log}, nil
}

func newPublisher(ch channel, log zerolog.Logger) *Publisher {
	return &Publisher{ch: ch, log: log}
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	msg, err := encode(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.PublishWithContext(ctx, Exchange, string(event.Type), false, false, msg); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(string(event.Type), "error").Inc()
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	metrics.EventsPublishedTotal.WithLabelValues(string(event.Type), "ok").Inc()
	p.log.Debug().Str("event", string(event.Type)).Str("key", event.Key).Str("message_id", msg.MessageId).Msg("event published")
	return nil
}

// Close closes the channel and the underlying connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.Close(); err != nil {
		return fmt.Errorf("amqp channel close: %w", err)
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func encode(event domain.Event) (amqp091.Publishing, error) {
	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}

	body, err := json.Marshal(envelope{
		Type:       event.Type,
		Key:        event.Key,
		OccurredAt: occurred,
		Payload:    event.Payload,
	})
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("marshal event %s: %w", event.Type, err)
	}

	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    occurred,
		Type:         string(event.Type),
		Body:         body,
	}, nil
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domain.Event) error { return nil }
