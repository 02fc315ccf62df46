package application

import (
	"context"
	"fmt"

	"github.com/narwhalmedia/catalog/internal/domain/events"
)

// EventSink drains the events an aggregate buffered, appends them to the
// event log and dispatches them to in-process handlers. It must be called
// with a transaction context so the log commits with the aggregate.
type EventSink struct {
	store      events.EventStore
	dispatcher events.DomainEventDispatcher
}

func NewEventSink(store events.EventStore, dispatcher events.DomainEventDispatcher) *EventSink {
	return &EventSink{store: store, dispatcher: dispatcher}
}

// Flush returns the drained events so the caller can derive integration
// events from them after commit.
func (s *EventSink) Flush(ctx context.Context, recorder events.EventRecorder) ([]events.DomainEvent, error) {
	pending := recorder.PullEvents()
	if len(pending) == 0 {
		return nil, nil
	}

	stored := make([]events.Event, len(pending))
	for i, e := range pending {
		stored[i] = e
	}
	if err := s.store.Append(ctx, stored...); err != nil {
		return nil, fmt.Errorf("saving domain events: %w", err)
	}
	if err := s.dispatcher.Dispatch(ctx, pending...); err != nil {
		return nil, fmt.Errorf("dispatching domain events: %w", err)
	}
	return pending, nil
}
