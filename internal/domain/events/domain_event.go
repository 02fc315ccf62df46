package events

import (
	"context"
)

// DomainEvent is handled in-process, inside the transaction that raised it.
type DomainEvent interface {
	Event
}

// DomainEventHandler handles domain events within the same bounded context
type DomainEventHandler interface {
	// HandleDomainEvent processes a domain event synchronously
	HandleDomainEvent(ctx context.Context, event DomainEvent) error
	// CanHandle returns true if this handler can process the given event type
	CanHandle(eventType string) bool
}

// DomainEventDispatcher dispatches domain events to registered handlers
type DomainEventDispatcher interface {
	RegisterHandler(handler DomainEventHandler, eventTypes ...string)
	Dispatch(ctx context.Context, events ...DomainEvent) error
}

// EventRecorder is implemented by aggregates that buffer the events they raise.
type EventRecorder interface {
	PullEvents() []DomainEvent
}
