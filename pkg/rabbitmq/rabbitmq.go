package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/streadway/amqp"
)

// CatalogQueue is the queue catalog change events are published to.
const CatalogQueue = "catalog_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the durable
// catalog events queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		CatalogQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", CatalogQueue, err)
	}

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishCatalogEvent publishes a catalog change event (product.created,
// product.updated, product.deleted) as a persistent JSON message. The event
// name travels inside the body so consumers on the plain queue can dispatch
// on it.
func (c *Client) PublishCatalogEvent(event string, payload map[string]any) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	message := map[string]any{"event": event}
	for k, v := range payload {
		message[k] = v
	}
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog event: %w", err)
	}

	err = c.channel.Publish(
		"",           // exchange: default
		CatalogQueue, // routing key: the queue name
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish catalog event: %w", err)
	}
	return nil
}

// ConsumeCatalogEvents starts a goroutine that feeds catalog events to the
// given handler, acking on success and nacking (with requeue) on failure.
func (c *Client) ConsumeCatalogEvents(messageHandler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := c.channel.QueueDeclare(
		CatalogQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue for consuming: %w", err)
	}

	msgs, err := c.channel.Consume(
		queue.Name,
		"",    // consumer tag
		false, // auto-ack off, acked manually below
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := messageHandler(msg); err != nil {
				msg.Nack(false, true)
			} else {
				msg.Ack(false)
			}
		}
	}()

	return nil
}
