package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/narwhalmedia/catalog/internal/infrastructure/events"
)

// Publisher implements events.Bus using NATS JetStream; the message key is
// the subject.
type Publisher struct {
	js     jetstream.JetStream
	logger *zap.Logger
}

func NewPublisher(client *Client, logger *zap.Logger) *Publisher {
	return &Publisher{js: client.JetStream(), logger: logger.Named("publisher")}
}

func (p *Publisher) Publish(ctx context.Context, msg events.Message) error {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var opts []jetstream.PublishOpt
	if id := msg.Headers[events.HeaderMessageID]; id != "" {
		opts = append(opts, jetstream.WithMsgID(id))
	}

	ack, err := p.js.PublishMsg(pubCtx, toNatsMsg(msg), opts...)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", msg.Key, err)
	}

	p.logger.Debug("Message published",
		zap.String("subject", msg.Key),
		zap.Uint64("sequence", ack.Sequence),
		zap.String("stream", ack.Stream),
	)
	return nil
}

// Close is a no-op; the Client owns the connection.
func (p *Publisher) Close() error { return nil }

func toNatsMsg(msg events.Message) *nats.Msg {
	m := nats.NewMsg(msg.Key)
	m.Data = msg.Body
	for k, v := range msg.Headers {
		m.Header.Set(k, v)
	}
	return m
}

func fromNatsMsg(subject string, data []byte, header nats.Header) events.Message {
	headers := make(map[string]string, len(header))
	for k := range header {
		headers[k] = header.Get(k)
	}
	return events.Message{Key: subject, Body: data, Headers: headers}
}
