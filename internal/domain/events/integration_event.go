package events

import (
	"context"
	"time"
)

// IntegrationEvent crosses the service boundary. It is published to the
// broker only after the transaction that produced it has committed.
type IntegrationEvent interface {
	Event
	// Payload is the body sent on the wire.
	Payload() any
	CorrelationID() string
	PublishedAt() *time.Time
}

// BaseIntegrationEvent provides common functionality for integration events
type BaseIntegrationEvent struct {
	BaseEvent
	correlationID string
	publishedAt   *time.Time
}

// NewBaseIntegrationEvent creates a new base integration event
func NewBaseIntegrationEvent(base BaseEvent, correlationID string) BaseIntegrationEvent {
	return BaseIntegrationEvent{
		BaseEvent:     base,
		correlationID: correlationID,
	}
}

// CorrelationID returns the correlation ID
func (e *BaseIntegrationEvent) CorrelationID() string {
	return e.correlationID
}

// PublishedAt returns when this event was published
func (e *BaseIntegrationEvent) PublishedAt() *time.Time {
	return e.publishedAt
}

// MarkAsPublished marks the event as published
func (e *BaseIntegrationEvent) MarkAsPublished() {
	now := time.Now().UTC()
	e.publishedAt = &now
}

// IntegrationEventPublisher publishes integration events to the message broker
type IntegrationEventPublisher interface {
	PublishIntegrationEvent(ctx context.Context, event IntegrationEvent) error
}
