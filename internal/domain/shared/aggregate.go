package shared

import (
	"time"

	"github.com/google/uuid"

	"github.com/narwhalmedia/catalog/internal/domain/events"
)

// BaseAggregate provides the identity and event buffer shared by all aggregates.
type BaseAggregate struct {
	id        uuid.UUID
	createdAt time.Time
	events    []events.DomainEvent
}

// NewBaseAggregate creates a new base aggregate with a new UUID and the current time.
func NewBaseAggregate() BaseAggregate {
	return BaseAggregate{
		id:        uuid.New(),
		createdAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

// RestoreBaseAggregate rebuilds the base from persisted state.
func RestoreBaseAggregate(id uuid.UUID, createdAt time.Time) BaseAggregate {
	return BaseAggregate{id: id, createdAt: createdAt}
}

// ID returns the aggregate's ID
func (a *BaseAggregate) ID() uuid.UUID {
	return a.id
}

// CreatedAt returns the aggregate's creation time
func (a *BaseAggregate) CreatedAt() time.Time {
	return a.createdAt
}

// RecordEvent buffers an event until the application layer pulls it.
func (a *BaseAggregate) RecordEvent(e events.DomainEvent) {
	a.events = append(a.events, e)
}

// PullEvents returns and clears the buffered events.
func (a *BaseAggregate) PullEvents() []events.DomainEvent {
	out := a.events
	a.events = nil
	return out
}
