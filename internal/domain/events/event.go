package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is something that happened to an aggregate.
type Event interface {
	ID() uuid.UUID
	AggregateID() uuid.UUID
	AggregateType() string
	EventType() string
	Version() int
	OccurredAt() time.Time
}

// BaseEvent provides common event functionality
type BaseEvent struct {
	id            uuid.UUID
	aggregateID   uuid.UUID
	aggregateType string
	eventType     string
	version       int
	occurredAt    time.Time
}

// NewBaseEvent creates a new base event
func NewBaseEvent(aggregateID uuid.UUID, aggregateType, eventType string) BaseEvent {
	return BaseEvent{
		id:            uuid.New(),
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
		eventType:     eventType,
		version:       1,
		occurredAt:    time.Now().UTC(),
	}
}

func (e BaseEvent) ID() uuid.UUID          { return e.id }
func (e BaseEvent) AggregateID() uuid.UUID { return e.aggregateID }
func (e BaseEvent) AggregateType() string  { return e.aggregateType }
func (e BaseEvent) EventType() string      { return e.eventType }
func (e BaseEvent) Version() int           { return e.version }
func (e BaseEvent) OccurredAt() time.Time  { return e.occurredAt }

// StoredEvent is an event as it was recorded in the event log.
type StoredEvent struct {
	ID            uuid.UUID
	AggregateID   uuid.UUID
	AggregateType string
	EventType     string
	Version       int
	Payload       []byte
	OccurredAt    time.Time
}

// EventStore appends domain events to a durable log inside the
// caller's transaction.
type EventStore interface {
	Append(ctx context.Context, events ...Event) error
	ListByAggregate(ctx context.Context, aggregateID uuid.UUID) ([]StoredEvent, error)
}
