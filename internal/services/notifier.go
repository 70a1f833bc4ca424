package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"alfredoptarigan/cv-screener/internal/screening"
)

// Publisher is the part of an AMQP channel the notifier uses.
type Publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPNotifier publishes every result to a topic exchange under
// "result.<job_id>".
type AMQPNotifier struct {
	mu       sync.Mutex
	ch       Publisher
	conn     *amqp.Connection
	exchange string
}

// NewAMQPNotifier dials url and declares exchange as a durable topic exchange.
func NewAMQPNotifier(url, exchange string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AMQPNotifier{ch: ch, conn: conn, exchange: exchange}, nil
}

// NewAMQPNotifierWithPublisher wraps an already open channel.
func NewAMQPNotifierWithPublisher(ch Publisher, exchange string) *AMQPNotifier {
	return &AMQPNotifier{ch: ch, exchange: exchange}
}

func (n *AMQPNotifier) Name() string { return "amqp" }

func (n *AMQPNotifier) Persist(ctx context.Context, rec screening.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload := rec.Map()
	if id, ok := BatchIDFrom(ctx); ok {
		payload["batch_id"] = id.String()
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	// amqp channels are not safe for concurrent publishing
	n.mu.Lock()
	defer n.mu.Unlock()

	err = n.ch.Publish(n.exchange, RoutingKey(rec.JobID), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish result: %w", err)
	}
	return nil
}

// Close releases the channel and connection when the notifier owns them.
func (n *AMQPNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if c, ok := n.ch.(*amqp.Channel); ok {
		c.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}

func RoutingKey(jobID string) string {
	return fmt.Sprintf("result.%s", jobID)
}
