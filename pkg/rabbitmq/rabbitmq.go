package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/streadway/amqp"
)

// EventsQueue receives every domain event published by the service.
const EventsQueue = "form_events"

// Channel is the subset of *amqp.Channel the client publishes through.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel Channel
	queue   string
	now     func() time.Time
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// Event is the JSON body of every published message.
type Event struct {
	Event      string                 `json:"event"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// NewClient connects to RabbitMQ, opens a channel and declares the events queue.
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

	client, err := NewClientWithChannel(ch, cfg.Queue)
	if err != nil {
		conn.Close()
		return nil, err
	}
	client.conn = conn
	return client, nil
}

// NewClientWithChannel declares the queue on an already open channel.
func NewClientWithChannel(ch Channel, queue string) (*Client, error) {
	if queue == "" {
		queue = EventsQueue
	}

	_, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", queue, err)
	}

	return &Client{
		channel: ch,
		queue:   queue,
		now:     time.Now,
	}, nil
}

// Close closes the RabbitMQ channel and connection.
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
		return fmt.Errorf("errors closing RabbitMQ client: %v", errs)
	}
	return nil
}

// Publish sends a persistent JSON event to the events queue through the default exchange.
func (c *Client) Publish(event string, data map[string]interface{}) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	now := c.now()
	body, err := json.Marshal(Event{Event: event, Data: data, OccurredAt: now.UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event, err)
	}

	err = c.channel.Publish(
		"",      // default exchange
		c.queue, // routing key: the queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         event,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    now,
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event, err)
	}
	return nil
}
