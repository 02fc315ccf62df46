package video

import (
	"github.com/google/uuid"

	"github.com/narwhalmedia/catalog/internal/domain/events"
)

const (
	EventTypeVideoCreated        = "video.created"
	EventTypeAudioMediaReplaced  = "video.audio_media_replaced"
	EventTypeAudioMediaProcessed = "video.audio_media_processed"
	EventTypeVideoPublished      = "video.published"
	EventTypeAudioMediaUploaded  = "video.audio_media_uploaded"
)

// Created is raised when a video enters the catalog.
type Created struct {
	events.BaseEvent
	Title string `json:"title"`
}

func newCreated(v *Video) *Created {
	return &Created{
		BaseEvent: events.NewBaseEvent(v.ID(), AggregateType, EventTypeVideoCreated),
		Title:     v.title,
	}
}

// AudioMediaReplaced is raised when a trailer or video file is uploaded,
// replacing whatever was in the slot before.
type AudioMediaReplaced struct {
	events.BaseEvent
	Field       MediaField `json:"field"`
	Name        string     `json:"name"`
	RawLocation string     `json:"raw_location"`
}

func newAudioMediaReplaced(id uuid.UUID, field MediaField, media AudioVideoMedia) *AudioMediaReplaced {
	return &AudioMediaReplaced{
		BaseEvent:   events.NewBaseEvent(id, AggregateType, EventTypeAudioMediaReplaced),
		Field:       field,
		Name:        media.name,
		RawLocation: media.rawLocation,
	}
}

// AudioMediaProcessed is raised when the encoder reports a final state.
type AudioMediaProcessed struct {
	events.BaseEvent
	Field           MediaField  `json:"field"`
	Status          MediaStatus `json:"status"`
	EncodedLocation string      `json:"encoded_location,omitempty"`
}

func newAudioMediaProcessed(id uuid.UUID, field MediaField, media AudioVideoMedia) *AudioMediaProcessed {
	return &AudioMediaProcessed{
		BaseEvent:       events.NewBaseEvent(id, AggregateType, EventTypeAudioMediaProcessed),
		Field:           field,
		Status:          media.status,
		EncodedLocation: media.encodedLocation,
	}
}

// Published is raised once both trailer and video are encoded.
type Published struct {
	events.BaseEvent
}

// AudioMediaUploadedPayload is the message the encoder consumes.
type AudioMediaUploadedPayload struct {
	ResourceID string `json:"resource_id"`
	FilePath   string `json:"file_path"`
}

// AudioMediaUploadedIntegrationEvent asks the encoder to process an upload.
type AudioMediaUploadedIntegrationEvent struct {
	events.BaseIntegrationEvent
	payload AudioMediaUploadedPayload
}

// NewAudioMediaUploadedIntegrationEvent builds the integration event for a
// replaced trailer or video.
func NewAudioMediaUploadedIntegrationEvent(e *AudioMediaReplaced, correlationID string) *AudioMediaUploadedIntegrationEvent {
	return &AudioMediaUploadedIntegrationEvent{
		BaseIntegrationEvent: events.NewBaseIntegrationEvent(
			events.NewBaseEvent(e.AggregateID(), AggregateType, EventTypeAudioMediaUploaded),
			correlationID,
		),
		payload: AudioMediaUploadedPayload{
			ResourceID: ResourceID(e.AggregateID(), e.Field),
			FilePath:   e.RawLocation,
		},
	}
}

func (e *AudioMediaUploadedIntegrationEvent) Payload() any {
	return e.payload
}
