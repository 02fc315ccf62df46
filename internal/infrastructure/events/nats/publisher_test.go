package nats_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/narwhalmedia/catalog/internal/infrastructure/events"
	"github.com/narwhalmedia/catalog/internal/infrastructure/events/nats"
	"github.com/narwhalmedia/catalog/pkg/config"
)

func testConfig(t *testing.T) config.NATSConfig {
	return config.NATSConfig{
		URL:           "nats://localhost:4222",
		ClientID:      "test-" + t.Name(),
		Stream:        "CATALOG_TEST",
		Durable:       "catalog-test",
		MaxReconnect:  1,
		ReconnectWait: 100 * time.Millisecond,
		AckWait:       5 * time.Second,
	}
}

func TestPublisher_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping NATS test in short mode")
	}
	logger := zaptest.NewLogger(t)

	client, cleanup, err := nats.NewClient(testConfig(t), []string{"videos.>"}, logger)
	if err != nil {
		t.Skip("NATS not available:", err)
	}
	defer cleanup()

	publisher := nats.NewPublisher(client, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = publisher.Publish(ctx, events.Message{
		Key:     "videos.convert",
		Body:    []byte(`{"status":"COMPLETED"}`),
		Headers: map[string]string{events.HeaderCorrelationID: "req-1"},
	})
	require.NoError(t, err)

	received := make(chan events.Message, 1)
	consumer := nats.NewConsumer(client, "videos.convert", 3, logger)
	go func() {
		_ = consumer.Consume(ctx, func(_ context.Context, msg events.Message) error {
			select {
			case received <- msg:
			default:
			}
			return nil
		})
	}()

	select {
	case msg := <-received:
		assert.Equal(t, "videos.convert", msg.Key)
		assert.Equal(t, "req-1", msg.Headers[events.HeaderCorrelationID])
	case <-ctx.Done():
		t.Fatal("message not received")
	}
}
