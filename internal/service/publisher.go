package service

import (
	"context"       // publish deadline
	"encoding/json" // message body
	"fmt"           // error wrapping
	"time"          // dial timeout and message timestamp

	amqp "github.com/rabbitmq/amqp091-go" // RabbitMQ client

	"github.com/iliyamo/animula-auth/internal/queue" // AuthEvent + queue name
)

// EventPublisher delivers auth events.  AuthService treats failures as
// non-fatal.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.AuthEvent) error
}

// Publisher publishes auth events to RabbitMQ.  Each call opens its own
// connection, so the type holds no connection state and is safe for
// concurrent use.
type Publisher struct {
	URL string
}

func NewPublisher(url string) *Publisher { return &Publisher{URL: url} }

// defaultDialTimeout bounds dialing and the AMQP handshake when ctx has no
// deadline of its own.
const defaultDialTimeout = 5 * time.Second

// Publish sends ev to the auth.events queue as a persistent JSON message.
// The whole call, handshake included, ends no later than ctx.
func (p *Publisher) Publish(ctx context.Context, ev queue.AuthEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := defaultDialTimeout
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl) // dial + handshake must fit in what is left
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}

	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Dial:      amqp.DefaultDial(timeout), // sets the socket deadline for the handshake too
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
	})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	// Channel and queue calls take no ctx; closing the connection when ctx
	// ends makes them return instead of blocking.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		queue.AuthEventsQueue, // name
		true,                  // durable
		false,                 // autoDelete
		false,                 // exclusive
		false,                 // noWait
		nil,                   // args
	); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.AuthEventsQueue, false, false, pub); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("rabbitmq publish: %w", ctx.Err())
		}
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}
