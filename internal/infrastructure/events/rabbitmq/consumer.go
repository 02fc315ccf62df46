package rabbitmq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/narwhalmedia/catalog/internal/infrastructure/events"
)

// Consumer reads the convert queue. A failed message is republished with
// an incremented x-retry-count until MaxRetries, then rejected without
// requeue so the broker routes it to the dead letter exchange.
type Consumer struct {
	client     *Client
	republish  publishFunc
	exchange   string
	queue      string
	prefetch   int
	maxRetries int
	logger     *zap.Logger
}

func NewConsumer(client *Client, maxRetries int, logger *zap.Logger) *Consumer {
	return &Consumer{
		client:     client,
		republish:  client.publish,
		exchange:   client.cfg.Exchange,
		queue:      client.cfg.Queue,
		prefetch:   client.cfg.Prefetch,
		maxRetries: maxRetries,
		logger:     logger.Named("consumer"),
	}
}

// Consume blocks until ctx is done or the delivery channel closes.
func (c *Consumer) Consume(ctx context.Context, h events.Handler) error {
	ch, err := c.client.Channel()
	if err != nil {
		return fmt.Errorf("failed to open consumer channel: %w", err)
	}
	defer ch.Close()

	if c.prefetch > 0 {
		if err := ch.Qos(c.prefetch, 0, false); err != nil {
			return fmt.Errorf("failed to set prefetch: %w", err)
		}
	}

	deliveries, err := ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", c.queue, err)
	}

	c.logger.Info("Consumer started", zap.String("queue", c.queue))
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Consumer stopping", zap.String("queue", c.queue))
			return nil
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("delivery channel for %s closed", c.queue)
			}
			c.handle(ctx, d, h)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery, h events.Handler) {
	msg := fromDelivery(d)
	err := h(ctx, msg)
	log := c.logger.With(
		zap.String("routing_key", d.RoutingKey),
		zap.String("message_id", d.MessageId),
		zap.Int("retry_count", msg.RetryCount()),
	)

	switch events.Decide(err, msg.RetryCount(), c.maxRetries) {
	case events.Ack:
		if err := d.Ack(false); err != nil {
			log.Error("Failed to ack message", zap.Error(err))
		}

	case events.Retry:
		log.Warn("Message failed, scheduling retry", zap.Error(err))
		retry := msg.WithRetry(err)
		retry.Key = d.RoutingKey
		if pubErr := c.republish(ctx, c.exchange, d.RoutingKey, toPublishing(retry)); pubErr != nil {
			log.Error("Failed to republish message, requeueing", zap.Error(pubErr))
			if err := d.Nack(false, true); err != nil {
				log.Error("Failed to nack message", zap.Error(err))
			}
			return
		}
		if err := d.Ack(false); err != nil {
			log.Error("Failed to ack message", zap.Error(err))
		}

	case events.DeadLetter:
		log.Error("Message dead-lettered",
			zap.Error(err),
			zap.Bool("permanent", events.IsPermanent(err)),
		)
		if err := d.Nack(false, false); err != nil {
			log.Error("Failed to nack message", zap.Error(err))
		}
	}
}
