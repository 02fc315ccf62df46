// Package nats carries catalog messages over NATS JetStream.
package nats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/narwhalmedia/catalog/pkg/config"
)

// DeadLetterPrefix prefixes the subject dead-lettered messages are sent to.
const DeadLetterPrefix = "dlq."

// Client wraps NATS and JetStream connections
type Client struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	logger *zap.Logger
	cfg    config.NATSConfig
}

// NewClient connects and makes sure the stream captures subjects.
func NewClient(cfg config.NATSConfig, subjects []string, logger *zap.Logger) (*Client, func(), error) {
	logger = logger.Named("nats")
	opts := []nats.Option{
		nats.Name(cfg.ClientID),
		nats.MaxReconnects(cfg.MaxReconnect),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	client := &Client{nc: nc, js: js, logger: logger, cfg: cfg}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.initializeStreams(ctx, subjects); err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to initialize streams: %w", err)
	}

	cleanup := func() {
		if err := nc.Drain(); err != nil {
			logger.Error("failed to drain NATS connection", zap.Error(err))
		}
	}

	logger.Info("NATS client initialized",
		zap.String("url", cfg.URL),
		zap.String("client_id", cfg.ClientID),
		zap.String("stream", cfg.Stream),
	)
	return client, cleanup, nil
}

// initializeStreams creates the catalog stream and its dead letter stream.
func (c *Client) initializeStreams(ctx context.Context, subjects []string) error {
	streams := []jetstream.StreamConfig{
		{
			Name:        c.cfg.Stream,
			Description: "Video upload and encoding messages",
			Subjects:    subjects,
			Retention:   jetstream.LimitsPolicy,
			MaxAge:      7 * 24 * time.Hour,
			Storage:     jetstream.FileStorage,
			Discard:     jetstream.DiscardOld,
			Replicas:    1,
		},
		{
			Name:        c.cfg.Stream + "_DLQ",
			Description: "Dead letter queue for failed messages",
			Subjects:    []string{DeadLetterPrefix + ">"},
			Retention:   jetstream.LimitsPolicy,
			MaxAge:      30 * 24 * time.Hour,
			Storage:     jetstream.FileStorage,
			Discard:     jetstream.DiscardOld,
			Replicas:    1,
		},
	}
	for _, s := range streams {
		if _, err := c.js.CreateOrUpdateStream(ctx, s); err != nil {
			return fmt.Errorf("failed to create stream %s: %w", s.Name, err)
		}
	}
	c.logger.Info("JetStream streams initialized")
	return nil
}

// JetStream returns the JetStream context
func (c *Client) JetStream() jetstream.JetStream {
	return c.js
}

// Health checks the health of the NATS connection
func (c *Client) Health(ctx context.Context) error {
	if !c.nc.IsConnected() {
		return errors.New("NATS client is not connected")
	}
	if _, err := c.js.AccountInfo(ctx); err != nil {
		return fmt.Errorf("failed to get JetStream account info: %w", err)
	}
	return nil
}

// Close closes the NATS connection
func (c *Client) Close() error {
	if c.nc != nil {
		c.nc.Close()
	}
	return nil
}
