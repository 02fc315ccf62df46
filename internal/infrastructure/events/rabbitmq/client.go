// Package rabbitmq carries catalog messages over AMQP 0-9-1.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/narwhalmedia/catalog/pkg/config"
)

// Client owns the AMQP connection and declares the catalog topology:
// the convert queue bound to the exchange, dead-lettering into the DLQ.
type Client struct {
	conn   *amqp.Connection
	cfg    config.RabbitMQConfig
	logger *zap.Logger

	mu sync.Mutex
	ch *amqp.Channel
}

// NewClient dials the broker and declares the topology for convertRoutingKey.
func NewClient(cfg config.RabbitMQConfig, convertRoutingKey string, logger *zap.Logger) (*Client, func(), error) {
	logger = logger.Named("rabbitmq")

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	c := &Client{conn: conn, ch: ch, cfg: cfg, logger: logger}
	if err := c.declareTopology(ch, convertRoutingKey); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to declare topology: %w", err)
	}

	go func() {
		if err, ok := <-conn.NotifyClose(make(chan *amqp.Error, 1)); ok && err != nil {
			logger.Error("RabbitMQ connection closed", zap.String("reason", err.Reason), zap.Int("code", err.Code))
		}
	}()

	logger.Info("RabbitMQ client initialized",
		zap.String("exchange", cfg.Exchange),
		zap.String("queue", cfg.Queue),
	)

	cleanup := func() {
		if err := c.Close(); err != nil {
			logger.Error("failed to close RabbitMQ connection", zap.Error(err))
		}
	}
	return c, cleanup, nil
}

func (c *Client) declareTopology(ch *amqp.Channel, convertRoutingKey string) error {
	// amq.* exchanges are predeclared and can't be redeclared by clients.
	if !strings.HasPrefix(c.cfg.Exchange, "amq.") {
		if err := ch.ExchangeDeclare(c.cfg.Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare exchange %s: %w", c.cfg.Exchange, err)
		}
	}
	if err := ch.ExchangeDeclare(c.cfg.DeadLetterExchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare dead letter exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(c.cfg.DeadLetterQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare dead letter queue: %w", err)
	}
	if err := ch.QueueBind(c.cfg.DeadLetterQueue, "", c.cfg.DeadLetterExchange, false, nil); err != nil {
		return fmt.Errorf("bind dead letter queue: %w", err)
	}

	_, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange": c.cfg.DeadLetterExchange,
	})
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", c.cfg.Queue, err)
	}
	if err := ch.QueueBind(c.cfg.Queue, convertRoutingKey, c.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", c.cfg.Queue, err)
	}
	return nil
}

// Channel opens a new channel for a consumer.
func (c *Client) Channel() (*amqp.Channel, error) {
	return c.conn.Channel()
}

// publish serializes use of the shared publishing channel; amqp channels
// aren't safe for concurrent publishes.
func (c *Client) publish(ctx context.Context, exchange, key string, p amqp.Publishing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ch.PublishWithContext(ctx, exchange, key, false, false, p)
}

// Health reports whether the connection is open.
func (c *Client) Health(context.Context) error {
	if c.conn == nil || c.conn.IsClosed() {
		return errors.New("RabbitMQ connection is closed")
	}
	return nil
}

func (c *Client) Close() error {
	if c.conn == nil || c.conn.IsClosed() {
		return nil
	}
	return c.conn.Close()
}
