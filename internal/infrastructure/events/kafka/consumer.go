package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/narwhalmedia/catalog/internal/infrastructure/events"
)

// DeadLetterSuffix is appended to a topic to name its dead letter topic.
const DeadLetterSuffix = ".dlq"

// Consumer reads one topic in a consumer group. Kafka has no per-message
// nack, so retriable failures are retried in place with a backoff before
// the message is copied to the dead letter topic and its offset committed.
type Consumer struct {
	group      sarama.ConsumerGroup
	dlq        events.Bus
	topic      string
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

// NewConsumer creates a new Kafka event consumer
func NewConsumer(brokers []string, groupID, topic string, dlq events.Bus, maxRetries int, logger *zap.Logger) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Return.Errors = true
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("creating consumer group: %w", err)
	}
	return &Consumer{
		group:      group,
		dlq:        dlq,
		topic:      topic,
		maxRetries: maxRetries,
		backoff:    time.Second,
		logger:     logger.Named("consumer"),
	}, nil
}

// Consume joins the group until ctx is done.
func (c *Consumer) Consume(ctx context.Context, h events.Handler) error {
	go func() {
		for err := range c.group.Errors() {
			c.logger.Error("consumer group error", zap.Error(err))
		}
	}()

	handler := &groupHandler{consumer: c, handle: h}
	for {
		if err := c.group.Consume(ctx, []string{c.topic}, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return fmt.Errorf("consuming messages: %w", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// Close closes the consumer
func (c *Consumer) Close() error {
	return c.group.Close()
}

// process runs h with in-place retries. It reports false when the message
// was neither handled nor dead-lettered, in which case its offset must not
// be committed.
func (c *Consumer) process(ctx context.Context, msg events.Message, h events.Handler) bool {
	for attempt := 0; ; attempt++ {
		err := h(ctx, msg)
		switch events.Decide(err, attempt, c.maxRetries) {
		case events.Ack:
			return true
		case events.DeadLetter:
			return c.deadLetter(ctx, msg.WithRetry(err), attempt)
		case events.Retry:
			c.logger.Warn("Message failed, retrying",
				zap.String("topic", msg.Key),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			select {
			case <-ctx.Done():
				return false
			case <-time.After(time.Duration(attempt+1) * c.backoff):
			}
		}
	}
}

func (c *Consumer) deadLetter(ctx context.Context, msg events.Message, attempts int) bool {
	original := msg.Key
	msg.Key = original + DeadLetterSuffix
	if err := c.dlq.Publish(ctx, msg); err != nil {
		c.logger.Error("failed to send message to DLQ", zap.String("topic", original), zap.Error(err))
		return false
	}
	c.logger.Warn("message sent to dead letter queue",
		zap.String("original_topic", original),
		zap.String("error", msg.Headers[events.HeaderError]),
		zap.Int("attempts", attempts+1),
	)
	return true
}

type groupHandler struct {
	consumer *Consumer
	handle   events.Handler
}

// Setup implements sarama.ConsumerGroupHandler
func (g *groupHandler) Setup(sarama.ConsumerGroupSession) error { return nil }

// Cleanup implements sarama.ConsumerGroupHandler
func (g *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim implements sarama.ConsumerGroupHandler
func (g *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case <-session.Context().Done():
			return nil
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if !g.consumer.process(session.Context(), fromConsumerMessage(message), g.handle) {
				// Leave the offset uncommitted so the group redelivers it.
				return nil
			}
			session.MarkMessage(message, "")
		}
	}
}

func fromConsumerMessage(m *sarama.ConsumerMessage) events.Message {
	headers := make(map[string]string, len(m.Headers))
	for _, h := range m.Headers {
		if h != nil {
			headers[string(h.Key)] = string(h.Value)
		}
	}
	return events.Message{Key: m.Topic, Body: m.Value, Headers: headers}
}
