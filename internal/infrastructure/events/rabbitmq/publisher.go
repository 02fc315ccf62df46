package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/narwhalmedia/catalog/internal/infrastructure/events"
)

type publishFunc func(ctx context.Context, exchange, key string, p amqp.Publishing) error

// Publisher implements events.Bus on the configured exchange.
type Publisher struct {
	publish  publishFunc
	exchange string
	logger   *zap.Logger
}

func NewPublisher(client *Client, logger *zap.Logger) *Publisher {
	return &Publisher{publish: client.publish, exchange: client.cfg.Exchange, logger: logger.Named("publisher")}
}

func (p *Publisher) Publish(ctx context.Context, msg events.Message) error {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.publish(pubCtx, p.exchange, msg.Key, toPublishing(msg)); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", msg.Key, err)
	}
	p.logger.Debug("Message published",
		zap.String("exchange", p.exchange),
		zap.String("routing_key", msg.Key),
		zap.String("message_id", msg.Headers[events.HeaderMessageID]),
	)
	return nil
}

// Close is a no-op; the Client owns the connection.
func (p *Publisher) Close() error { return nil }

func toPublishing(msg events.Message) amqp.Publishing {
	headers := amqp.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	return amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     msg.Headers[events.HeaderMessageID],
		CorrelationId: msg.Headers[events.HeaderCorrelationID],
		Timestamp:     time.Now().UTC(),
		Headers:       headers,
		Body:          msg.Body,
	}
}

func fromDelivery(d amqp.Delivery) events.Message {
	headers := make(map[string]string, len(d.Headers)+2)
	for k, v := range d.Headers {
		switch val := v.(type) {
		case string:
			headers[k] = val
		case []byte:
			headers[k] = string(val)
		default:
			headers[k] = fmt.Sprint(val)
		}
	}
	if d.CorrelationId != "" {
		headers[events.HeaderCorrelationID] = d.CorrelationId
	}
	if d.MessageId != "" {
		headers[events.HeaderMessageID] = d.MessageId
	}
	return events.Message{Key: d.RoutingKey, Body: d.Body, Headers: headers}
}
