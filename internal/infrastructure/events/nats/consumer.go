package nats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/narwhalmedia/catalog/internal/infrastructure/events"
)

// Consumer reads one subject through a durable pull consumer. Redelivery is
// left to JetStream: a retriable failure is nak'd with a backoff and the
// message is dead-lettered once it has been delivered more than maxRetries
// times.
type Consumer struct {
	client     *Client
	subject    string
	maxRetries int
	logger     *zap.Logger
}

func NewConsumer(client *Client, subject string, maxRetries int, logger *zap.Logger) *Consumer {
	return &Consumer{
		client:     client,
		subject:    subject,
		maxRetries: maxRetries,
		logger:     logger.Named("consumer"),
	}
}

func (c *Consumer) Consume(ctx context.Context, h events.Handler) error {
	cfg := c.client.cfg
	consumer, err := c.client.JetStream().CreateOrUpdateConsumer(ctx, cfg.Stream, jetstream.ConsumerConfig{
		Durable:       cfg.Durable,
		FilterSubject: c.subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       cfg.AckWait,
		MaxDeliver:    c.maxRetries + 2,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	c.logger.Info("Consumer started", zap.String("subject", c.subject), zap.String("durable", cfg.Durable))
	for {
		if ctx.Err() != nil {
			c.logger.Info("Consumer stopping", zap.String("subject", c.subject))
			return nil
		}
		batch, err := consumer.Fetch(1, jetstream.FetchMaxWait(5*time.Second))
		if err != nil {
			if !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, jetstream.ErrNoMessages) {
				c.logger.Error("failed to fetch messages", zap.Error(err))
				time.Sleep(time.Second)
			}
			continue
		}
		for msg := range batch.Messages() {
			c.handle(ctx, msg, h)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg jetstream.Msg, h events.Handler) {
	retries := 0
	if meta, err := msg.Metadata(); err == nil && meta.NumDelivered > 0 {
		retries = int(meta.NumDelivered) - 1
	}

	m := fromNatsMsg(msg.Subject(), msg.Data(), msg.Headers())
	err := h(ctx, m)
	log := c.logger.With(zap.String("subject", msg.Subject()), zap.Int("retry_count", retries))

	switch events.Decide(err, retries, c.maxRetries) {
	case events.Ack:
		if err := msg.Ack(); err != nil {
			log.Error("failed to acknowledge message", zap.Error(err))
		}
	case events.Retry:
		log.Warn("Message failed, scheduling retry", zap.Error(err))
		if err := msg.NakWithDelay(time.Duration(retries+1) * time.Second); err != nil {
			log.Error("failed to nak message", zap.Error(err))
		}
	case events.DeadLetter:
		c.deadLetter(ctx, m.WithRetry(err), log)
		if err := msg.Term(); err != nil {
			log.Error("failed to terminate message", zap.Error(err))
		}
	}
}

func (c *Consumer) deadLetter(ctx context.Context, m events.Message, log *zap.Logger) {
	original := m.Key
	m.Key = DeadLetterPrefix + original
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := c.client.JetStream().PublishMsg(pubCtx, toNatsMsg(m)); err != nil {
		log.Error("failed to send message to DLQ", zap.Error(err))
		return
	}
	log.Warn("message sent to dead letter queue",
		zap.String("original_subject", original),
		zap.String("error", m.Headers[events.HeaderError]),
	)
}
