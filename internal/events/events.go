package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const (
	TypeDownload = "download"
	TypeGrant    = "grant"
	TypeImport   = "import"
)

// Event is a committed change to credits or the lead catalog
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Amount     int       `json:"amount"`
	Count      int       `json:"count"`
	LeadIDs    []string  `json:"lead_ids,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers events after the change is committed
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops events; used when no broker is configured
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// AMQPPublisher publishes JSON events to a durable topic exchange with the
// routing key ledger.<type>
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	log      *logrus.Logger
}

// NewAMQPPublisher dials the broker and declares the exchange
func NewAMQPPublisher(url, exchange string, log *logrus.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange, log: log}, nil
}

// message builds the routing key and AMQP message for e
func message(e Event) (string, amqp.Publishing, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return "", amqp.Publishing{}, fmt.Errorf("failed to encode event: %w", err)
	}
	return "ledger." + e.Type, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    e.OccurredAt,
		Body:         body,
	}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	key, msg, err := message(e)
	if err != nil {
		return err
	}
	err = p.ch.PublishWithContext(ctx,
		p.exchange, // exchange
		key,        // routing key
		false,      // mandatory
		false,      // immediate
		msg)
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", e.Type, err)
	}
	p.log.Debugf("Published %s event for user %s", e.Type, e.UserID)
	return nil
}

// Close shuts the channel and the connection
func (p *AMQPPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
