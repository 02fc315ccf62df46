package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/narwhalmedia/catalog/internal/infrastructure/events"
)

func TestPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(m *sarama.ProducerMessage) error {
		if m.Topic != "videos.upload" {
			return errors.New("unexpected topic " + m.Topic)
		}
		return nil
	})
	p := NewPublisherWithProducer(producer, zaptest.NewLogger(t))

	err := p.Publish(context.Background(), events.Message{
		Key:     "videos.upload",
		Body:    []byte(`{"resource_id":"x.video"}`),
		Headers: map[string]string{events.HeaderMessageID: "id-1"},
	})

	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestPublisher_PublishError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	p := NewPublisherWithProducer(producer, zaptest.NewLogger(t))

	err := p.Publish(context.Background(), events.Message{Key: "videos.upload"})

	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

type recordingBus struct {
	sent []events.Message
}

func (b *recordingBus) Publish(_ context.Context, msg events.Message) error {
	b.sent = append(b.sent, msg)
	return nil
}

func (b *recordingBus) Close() error { return nil }

func newTestConsumer(t *testing.T, dlq events.Bus) *Consumer {
	return &Consumer{dlq: dlq, maxRetries: 2, backoff: time.Millisecond, logger: zaptest.NewLogger(t)}
}

func TestConsumer_RetriesThenDeadLetters(t *testing.T) {
	dlq := &recordingBus{}
	c := newTestConsumer(t, dlq)
	calls := 0

	handled := c.process(context.Background(), events.Message{Key: "videos.convert", Headers: map[string]string{}}, func(context.Context, events.Message) error {
		calls++
		return errors.New("db timeout")
	})

	assert.True(t, handled)
	assert.Equal(t, 3, calls)
	require.Len(t, dlq.sent, 1)
	assert.Equal(t, "videos.convert.dlq", dlq.sent[0].Key)
	assert.Equal(t, "db timeout", dlq.sent[0].Headers[events.HeaderError])
}

func TestConsumer_PermanentSkipsRetries(t *testing.T) {
	dlq := &recordingBus{}
	c := newTestConsumer(t, dlq)
	calls := 0

	c.process(context.Background(), events.Message{Key: "videos.convert"}, func(context.Context, events.Message) error {
		calls++
		return events.Permanent(errors.New("bad json"))
	})

	assert.Equal(t, 1, calls)
	assert.Len(t, dlq.sent, 1)
}

func TestConsumer_SucceedsAfterRetry(t *testing.T) {
	dlq := &recordingBus{}
	c := newTestConsumer(t, dlq)
	calls := 0

	c.process(context.Background(), events.Message{Key: "videos.convert"}, func(context.Context, events.Message) error {
		calls++
		if calls < 2 {
			return errors.New("db timeout")
		}
		return nil
	})

	assert.Equal(t, 2, calls)
	assert.Empty(t, dlq.sent)
}

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func newFakeClaim(offsets ...int64) *fakeClaim {
	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, len(offsets))}
	for _, o := range offsets {
		claim.messages <- &sarama.ConsumerMessage{Topic: "videos.convert", Offset: o, Value: []byte("{}")}
	}
	close(claim.messages)
	return claim
}

func TestConsumeClaim_MarksHandledMessages(t *testing.T) {
	c := newTestConsumer(t, &recordingBus{})
	session := &fakeSession{ctx: context.Background()}
	handler := &groupHandler{consumer: c, handle: func(context.Context, events.Message) error { return nil }}

	require.NoError(t, handler.ConsumeClaim(session, newFakeClaim(41, 42)))

	assert.Equal(t, []int64{41, 42}, session.marked)
}

func TestConsumeClaim_ShutdownDuringRetryLeavesOffset(t *testing.T) {
	dlq := &recordingBus{}
	c := newTestConsumer(t, dlq)
	c.backoff = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	session := &fakeSession{ctx: ctx}
	calls := 0
	handler := &groupHandler{consumer: c, handle: func(context.Context, events.Message) error {
		calls++
		cancel()
		return errors.New("db timeout")
	}}

	require.NoError(t, handler.ConsumeClaim(session, newFakeClaim(42)))

	assert.Equal(t, 1, calls)
	assert.Empty(t, dlq.sent)
	assert.Empty(t, session.marked)
}

type failingBus struct{}

func (failingBus) Publish(context.Context, events.Message) error { return sarama.ErrOutOfBrokers }
func (failingBus) Close() error                                  { return nil }

func TestConsumeClaim_UnpublishedDeadLetterLeavesOffset(t *testing.T) {
	c := newTestConsumer(t, failingBus{})
	session := &fakeSession{ctx: context.Background()}
	handler := &groupHandler{consumer: c, handle: func(context.Context, events.Message) error {
		return events.Permanent(errors.New("bad json"))
	}}

	require.NoError(t, handler.ConsumeClaim(session, newFakeClaim(7)))

	assert.Empty(t, session.marked)
}

func TestFromConsumerMessage(t *testing.T) {
	msg := fromConsumerMessage(&sarama.ConsumerMessage{
		Topic:   "videos.convert",
		Value:   []byte("{}"),
		Headers: []*sarama.RecordHeader{{Key: []byte(events.HeaderRetryCount), Value: []byte("2")}},
	})
	assert.Equal(t, "videos.convert", msg.Key)
	assert.Equal(t, 2, msg.RetryCount())
}
