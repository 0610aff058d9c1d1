package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// ExchangeName is the topic exchange booking events go to. The routing key
// is the event action.
const ExchangeName = "booking.events"

type message struct {
	Action     string    `json:"action"`
	Entity     string    `json:"entity"`
	EntityID   *uint     `json:"entity_id,omitempty"`
	UserID     *uint     `json:"user_id,omitempty"`
	Metadata   any       `json:"metadata,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AMQPPublisher forwards events to RabbitMQ.
type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  zerolog.Logger
	mu      sync.Mutex
}

func NewAMQPPublisher(url string, logger zerolog.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		ExchangeName,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	logger.Info().Str("exchange", ExchangeName).Msg("rabbitmq publisher connected")

	return &AMQPPublisher{conn: conn, channel: ch, logger: logger}, nil
}

func (p *AMQPPublisher) Name() string { return "amqp" }

func (p *AMQPPublisher) Write(ctx context.Context, ev Event) error {
	pub, err := newPublishing(ev)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.PublishWithContext(ctx, ExchangeName, ev.Action, false, false, pub); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Action, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.Close(); err != nil {
		p.logger.Warn().Err(err).Msg("close rabbitmq channel")
	}
	return p.conn.Close()
}

func newPublishing(ev Event) (amqp.Publishing, error) {
	body, err := json.Marshal(message{
		Action:     ev.Action,
		Entity:     ev.Entity,
		EntityID:   ev.EntityID,
		UserID:     ev.UserID,
		Metadata:   ev.Metadata,
		OccurredAt: ev.OccurredAt,
	})
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("encode event %s: %w", ev.Action, err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    ev.OccurredAt,
		Type:         ev.Action,
		Body:         body,
	}, nil
}
