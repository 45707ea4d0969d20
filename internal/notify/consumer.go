// AngelaMos | 2026
// consumer.go

package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultPrefetch = 16

// ErrMalformed marks a message that can never be processed. It is dropped
// rather than requeued.
var ErrMalformed = errors.New("malformed notification")

type HandlerFunc func(ctx context.Context, routingKey string, body []byte) error

type ConsumerConfig struct {
	URL      string
	Exchange string
	Queue    string
	Bindings []string
	Prefetch int
}

type Consumer struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewConsumer(cfg ConsumerConfig) (*Consumer, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	fail := func(err error) (*Consumer, error) {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	prefetch := cfg.Prefetch
	if prefetch <= 0 {
		prefetch = defaultPrefetch
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fail(fmt.Errorf("set qos: %w", err))
	}

	if err := declareExchange(ch, cfg.Exchange); err != nil {
		return fail(err)
	}

	q, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil)
	if err != nil {
		return fail(fmt.Errorf("declare queue: %w", err))
	}

	for _, key := range cfg.Bindings {
		if err := ch.QueueBind(q.Name, key, cfg.Exchange, false, nil); err != nil {
			return fail(fmt.Errorf("bind %s: %w", key, err))
		}
	}

	return &Consumer{conn: conn, ch: ch, queue: q.Name}, nil
}

// Run consumes until ctx is cancelled or the delivery channel closes.
func (c *Consumer) Run(ctx context.Context, handle HandlerFunc) error {
	deliveries, err := c.ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			process(ctx, d, handle)
		}
	}
}

func (c *Consumer) Close() error {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// process acks on success, drops malformed messages, and requeues a
// failed delivery once before dropping it.
func process(ctx context.Context, d amqp.Delivery, handle HandlerFunc) {
	err := handle(ctx, d.RoutingKey, d.Body)
	if err == nil {
		if ackErr := d.Ack(false); ackErr != nil {
			slog.ErrorContext(ctx, "ack failed", "error", ackErr)
		}
		return
	}

	requeue := !errors.Is(err, ErrMalformed) && !d.Redelivered

	slog.WarnContext(ctx, "notification failed",
		"routing_key", d.RoutingKey,
		"requeue", requeue,
		"error", err,
	)

	if nackErr := d.Nack(false, requeue); nackErr != nil {
		slog.ErrorContext(ctx, "nack failed", "error", nackErr)
	}
}
