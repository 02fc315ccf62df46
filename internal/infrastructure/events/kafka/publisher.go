// Package kafka carries catalog messages over Kafka; the message key is the topic.
package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/narwhalmedia/catalog/internal/infrastructure/events"
)

// Publisher implements events.Bus with a sarama.SyncProducer.
type Publisher struct {
	producer sarama.SyncProducer
	logger   *zap.Logger
}

// NewPublisher creates a new Kafka event publisher
func NewPublisher(brokers []string, logger *zap.Logger) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("creating producer: %w", err)
	}
	return NewPublisherWithProducer(producer, logger), nil
}

func NewPublisherWithProducer(producer sarama.SyncProducer, logger *zap.Logger) *Publisher {
	return &Publisher{producer: producer, logger: logger.Named("publisher")}
}

func (p *Publisher) Publish(_ context.Context, msg events.Message) error {
	partition, offset, err := p.producer.SendMessage(toProducerMessage(msg))
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	p.logger.Debug("Message published",
		zap.String("topic", msg.Key),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

// Close closes the publisher
func (p *Publisher) Close() error {
	return p.producer.Close()
}

func toProducerMessage(msg events.Message) *sarama.ProducerMessage {
	pm := &sarama.ProducerMessage{
		Topic: msg.Key,
		Value: sarama.ByteEncoder(msg.Body),
	}
	if id := msg.Headers[events.HeaderMessageID]; id != "" {
		pm.Key = sarama.StringEncoder(id)
	}
	for k, v := range msg.Headers {
		pm.Headers = append(pm.Headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}
	return pm
}
