package events

import (
	"context"
	"fmt"
	"time"

	"expensert/internal/logger"

	"github.com/rabbitmq/amqp091-go"
)

// Client publishes and consumes changes over a fanout exchange. Each client
// owns an exclusive, server-named queue so every instance sees every change.
type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

var _ Publisher = (*Client)(nil)

// NewClient dials url and declares the exchange and this instance's queue.
func NewClient(url, exchangeName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"fanout",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	q, err := c.channel.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	c.queueName = q.Name

	err = c.channel.QueueBind(
		c.queueName,    // queue name
		"",             // routing key, ignored by fanout
		c.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// Publish broadcasts change to every instance.
func (c *Client) Publish(ctx context.Context, change Change) error {
	body, err := change.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		"",             // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   change.Timestamp,
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	logger.Get().Debugw("Published ledger change",
		"namespace", change.Namespace,
		"action", change.Action,
		"resource", change.Resource,
		"revision", change.Revision,
		"exchange", c.exchangeName)

	return nil
}

// Consume delivers changes to handler until ctx is cancelled or the channel
// closes.
func (c *Client) Consume(ctx context.Context, handler func(Change) error) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		true,        // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	logger.Get().Infow("Started consuming ledger changes", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			logger.Get().Infow("Stopping change consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			handleDelivery(delivery, handler)
		}
	}
}

// handleDelivery decodes one message and acknowledges it according to the
// handler's outcome. Malformed messages are dropped; handler failures are
// requeued.
func handleDelivery(delivery amqp091.Delivery, handler func(Change) error) {
	change, err := ChangeFromJSON(delivery.Body)
	if err != nil {
		logger.Get().Errorw("Failed to unmarshal change", "error", err)
		_ = delivery.Nack(false, false)
		return
	}

	if err := handler(*change); err != nil {
		logger.Get().Errorw("Failed to handle change",
			"error", err,
			"namespace", change.Namespace)
		_ = delivery.Nack(false, true)
		return
	}

	_ = delivery.Ack(false)
}

// Close closes the channel and connection.
func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
