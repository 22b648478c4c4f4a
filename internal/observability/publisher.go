package observability

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Publisher hands events to the external notification pipeline.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// EventEnvelope wraps a published event with routing metadata.
type EventEnvelope struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	OccurredAt    time.Time `json:"occurred_at"`
	Payload       any       `json:"payload"`
}

// NewEnvelope builds a versioned envelope for an event payload.
func NewEnvelope(eventType string, payload any) EventEnvelope {
	return EventEnvelope{
		SchemaVersion: 1,
		EventType:     eventType,
		OccurredAt:    time.Now().UTC(),
		Payload:       payload,
	}
}

// NewPublisher builds a RabbitMQ publisher, or a noop publisher when AMQP
// is disabled or unreachable. Startup never fails on a missing broker.
func NewPublisher(amqpURL, exchange string, log zerolog.Logger) Publisher {
	if amqpURL == "" {
		log.Info().Msg("amqp disabled, using noop publisher")
		return noopPublisher{log: log}
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		log.Warn().Err(err).Msg("amqp unreachable, using noop publisher")
		return noopPublisher{log: log}
	}

	ch, err := conn.Channel()
	if err != nil {
		log.Warn().Err(err).Msg("amqp channel failed, using noop publisher")
		_ = conn.Close()
		return noopPublisher{log: log}
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		log.Warn().Err(err).Msg("amqp exchange declare failed, using noop publisher")
		_ = ch.Close()
		_ = conn.Close()
		return noopPublisher{log: log}
	}

	log.Info().Str("exchange", exchange).Msg("amqp connected")
	return &amqpPublisher{conn: conn, ch: ch, exchange: exchange, log: log}
}

type amqpPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	log      zerolog.Logger
}

func (p *amqpPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		IncAMQPPublishError()
		p.log.Warn().Err(err).Str("routing_key", routingKey).Msg("amqp publish failed")
	}
	return err
}

func (p *amqpPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

type noopPublisher struct {
	log zerolog.Logger
}

func (n noopPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	n.log.Debug().Str("routing_key", routingKey).Msg("noop publish")
	return nil
}

func (noopPublisher) Close() error {
	return nil
}
