package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	appvideo "github.com/narwhalmedia/catalog/internal/application/video"
	domainevents "github.com/narwhalmedia/catalog/internal/domain/events"
	"github.com/narwhalmedia/catalog/internal/domain/video"
	pkgerrors "github.com/narwhalmedia/catalog/pkg/errors"
)

type recordingBus struct {
	sent []Message
	err  error
}

func (b *recordingBus) Publish(_ context.Context, msg Message) error {
	if b.err != nil {
		return b.err
	}
	b.sent = append(b.sent, msg)
	return nil
}

func (b *recordingBus) Close() error { return nil }

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) ProcessAudioVideoMedia(ctx context.Context, cmd appvideo.ProcessAudioVideoMediaCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

func TestMessage_Retry(t *testing.T) {
	msg := Message{Key: "videos.convert", Body: []byte("{}"), Headers: map[string]string{HeaderRetryCount: "oops"}}
	assert.Equal(t, 0, msg.RetryCount())

	next := msg.WithRetry(errors.New("db down"))
	assert.Equal(t, 1, next.RetryCount())
	assert.Equal(t, "db down", next.Headers[HeaderError])
	assert.Equal(t, "oops", msg.Headers[HeaderRetryCount])
	assert.Equal(t, 2, next.WithRetry(nil).RetryCount())
}

func TestDecide(t *testing.T) {
	transient := errors.New("timeout")
	tests := []struct {
		name    string
		err     error
		retries int
		want    RetryDecision
	}{
		{"success", nil, 0, Ack},
		{"transient", transient, 0, Retry},
		{"transient last attempt", transient, 2, Retry},
		{"transient exhausted", transient, 3, DeadLetter},
		{"permanent", Permanent(transient), 0, DeadLetter},
		{"wrapped permanent", fmt.Errorf("ctx: %w", Permanent(transient)), 0, DeadLetter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.err, tt.retries, 3))
		})
	}
	assert.Nil(t, Permanent(nil))
}

func TestDispatcher_StopsAtFirstError(t *testing.T) {
	d := NewInMemoryDomainEventDispatcher()
	var seen []string
	d.RegisterHandler(NewFuncHandler(func(_ context.Context, e domainevents.DomainEvent) error {
		seen = append(seen, e.EventType())
		if e.EventType() == video.EventTypeVideoPublished {
			return errors.New("boom")
		}
		return nil
	}, video.EventTypeVideoCreated, video.EventTypeVideoPublished), video.EventTypeVideoCreated, video.EventTypeVideoPublished)

	id := uuid.New()
	created := &video.Created{BaseEvent: domainevents.NewBaseEvent(id, video.AggregateType, video.EventTypeVideoCreated)}
	published := &video.Published{BaseEvent: domainevents.NewBaseEvent(id, video.AggregateType, video.EventTypeVideoPublished)}
	processed := &video.AudioMediaProcessed{BaseEvent: domainevents.NewBaseEvent(id, video.AggregateType, video.EventTypeAudioMediaProcessed)}

	err := d.Dispatch(context.Background(), processed, created, published, created)

	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, []string{video.EventTypeVideoCreated, video.EventTypeVideoPublished}, seen)
}

func TestRegisterAuditHandlers(t *testing.T) {
	d := NewInMemoryDomainEventDispatcher()
	RegisterAuditHandlers(d, zaptest.NewLogger(t))

	replaced := &video.AudioMediaReplaced{
		BaseEvent: domainevents.NewBaseEvent(uuid.New(), video.AggregateType, video.EventTypeAudioMediaReplaced),
		Field:     video.FieldTrailer,
	}
	assert.NoError(t, d.Dispatch(context.Background(), replaced))
}

func TestIntegrationEventPublisher(t *testing.T) {
	bus := &recordingBus{}
	p := NewIntegrationEventPublisher(bus, DefaultRoutes("videos.upload"), zaptest.NewLogger(t))

	id := uuid.New()
	replaced := &video.AudioMediaReplaced{
		BaseEvent:   domainevents.NewBaseEvent(id, video.AggregateType, video.EventTypeAudioMediaReplaced),
		Field:       video.FieldVideo,
		RawLocation: "videos/x/video/abc.mp4",
	}
	event := video.NewAudioMediaUploadedIntegrationEvent(replaced, "req-1")

	require.NoError(t, p.PublishIntegrationEvent(context.Background(), event))
	require.Len(t, bus.sent, 1)

	msg := bus.sent[0]
	assert.Equal(t, "videos.upload", msg.Key)
	assert.Equal(t, "req-1", msg.Headers[HeaderCorrelationID])
	assert.Equal(t, video.EventTypeAudioMediaUploaded, msg.Headers[HeaderEventType])
	assert.JSONEq(t, fmt.Sprintf(`{"resource_id":"%s.video","file_path":"videos/x/video/abc.mp4"}`, id), string(msg.Body))
}

func TestIntegrationEventPublisher_Errors(t *testing.T) {
	replaced := &video.AudioMediaReplaced{
		BaseEvent: domainevents.NewBaseEvent(uuid.New(), video.AggregateType, video.EventTypeAudioMediaReplaced),
		Field:     video.FieldTrailer,
	}
	event := video.NewAudioMediaUploadedIntegrationEvent(replaced, "")

	p := NewIntegrationEventPublisher(&recordingBus{}, Routes{}, zaptest.NewLogger(t))
	assert.ErrorContains(t, p.PublishIntegrationEvent(context.Background(), event), "no route")

	p = NewIntegrationEventPublisher(&recordingBus{err: errors.New("closed")}, DefaultRoutes("videos.upload"), zaptest.NewLogger(t))
	assert.ErrorContains(t, p.PublishIntegrationEvent(context.Background(), event), "closed")
}

func convertMessage(t *testing.T, resourceID, folder, status string) Message {
	t.Helper()
	var in ConvertedMessage
	in.Video.ResourceID = resourceID
	in.Video.EncodedVideoFolder = folder
	in.Status = status
	body, err := json.Marshal(in)
	require.NoError(t, err)
	return Message{Key: "videos.convert", Body: body, Headers: map[string]string{}}
}

func TestConvertHandler_Applies(t *testing.T) {
	proc := new(mockProcessor)
	h := NewConvertHandler(proc, zaptest.NewLogger(t))
	id := uuid.New()

	proc.On("ProcessAudioVideoMedia", mock.Anything, appvideo.ProcessAudioVideoMediaCommand{
		VideoID:         id,
		Field:           "trailer",
		EncodedLocation: "encoded/trailer",
		Status:          "COMPLETED",
	}).Return(nil)

	err := h.Handle(context.Background(), convertMessage(t, id.String()+".trailer", "encoded/trailer", "COMPLETED"))

	assert.NoError(t, err)
	proc.AssertExpectations(t)
}

func TestConvertHandler_Classification(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name      string
		msg       func(t *testing.T) Message
		procErr   error
		permanent bool
	}{
		{
			name:      "malformed json",
			msg:       func(*testing.T) Message { return Message{Body: []byte("{")} },
			permanent: true,
		},
		{
			name:      "missing resource id",
			msg:       func(t *testing.T) Message { return convertMessage(t, "", "x", "COMPLETED") },
			permanent: true,
		},
		{
			name:      "image field",
			msg:       func(t *testing.T) Message { return convertMessage(t, id.String()+".banner", "x", "COMPLETED") },
			permanent: true,
		},
		{
			name:      "video not found",
			msg:       func(t *testing.T) Message { return convertMessage(t, id.String()+".video", "x", "COMPLETED") },
			procErr:   pkgerrors.NotFound("Video Not Found using ID " + id.String()),
			permanent: true,
		},
		{
			name:      "not pending",
			msg:       func(t *testing.T) Message { return convertMessage(t, id.String()+".video", "x", "FAILED") },
			procErr:   fmt.Errorf("video: %w", video.ErrMediaNotPending),
			permanent: true,
		},
		{
			name:    "database unavailable",
			msg:     func(t *testing.T) Message { return convertMessage(t, id.String()+".video", "x", "COMPLETED") },
			procErr: errors.New("connection refused"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc := new(mockProcessor)
			proc.On("ProcessAudioVideoMedia", mock.Anything, mock.Anything).Return(tt.procErr).Maybe()
			h := NewConvertHandler(proc, zaptest.NewLogger(t))

			err := h.Handle(context.Background(), tt.msg(t))

			require.Error(t, err)
			assert.Equal(t, tt.permanent, IsPermanent(err))
		})
	}
}
