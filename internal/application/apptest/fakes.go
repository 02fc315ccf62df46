// Package apptest holds in-memory collaborators for application service tests.
package apptest

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/narwhalmedia/catalog/internal/application"
	"github.com/narwhalmedia/catalog/internal/domain/events"
)

// UnitOfWork counts transactions instead of opening them.
type UnitOfWork struct {
	mu         sync.Mutex
	BeginErr   error
	Begun      int
	Committed  int
	RolledBack int
}

func (u *UnitOfWork) Begin(ctx context.Context) (application.Transaction, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.BeginErr != nil {
		return nil, u.BeginErr
	}
	u.Begun++
	return &tx{uow: u, ctx: ctx}, nil
}

type tx struct {
	uow  *UnitOfWork
	ctx  context.Context
	done bool
}

func (t *tx) Commit() error {
	t.uow.mu.Lock()
	defer t.uow.mu.Unlock()
	t.done = true
	t.uow.Committed++
	return nil
}

func (t *tx) Rollback() error {
	t.uow.mu.Lock()
	defer t.uow.mu.Unlock()
	if t.done {
		return nil
	}
	t.done = true
	t.uow.RolledBack++
	return nil
}

func (t *tx) Context() context.Context { return t.ctx }

// EventStore keeps appended events in memory.
type EventStore struct {
	mu     sync.Mutex
	Events []events.Event
}

func (s *EventStore) Append(_ context.Context, evts ...events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, evts...)
	return nil
}

func (s *EventStore) ListByAggregate(_ context.Context, id uuid.UUID) ([]events.StoredEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []events.StoredEvent
	for _, e := range s.Events {
		if e.AggregateID() == id {
			out = append(out, events.StoredEvent{
				ID:            e.ID(),
				AggregateID:   e.AggregateID(),
				AggregateType: e.AggregateType(),
				EventType:     e.EventType(),
				Version:       e.Version(),
				OccurredAt:    e.OccurredAt(),
			})
		}
	}
	return out, nil
}

// Types returns the event types in append order.
func (s *EventStore) Types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.Events))
	for i, e := range s.Events {
		out[i] = e.EventType()
	}
	return out
}

// Dispatcher drops every event.
type Dispatcher struct{}

func (Dispatcher) RegisterHandler(events.DomainEventHandler, ...string) {}

func (Dispatcher) Dispatch(context.Context, ...events.DomainEvent) error { return nil }

// Publisher is a testify mock of events.IntegrationEventPublisher.
type Publisher struct {
	mock.Mock
}

func (p *Publisher) PublishIntegrationEvent(ctx context.Context, e events.IntegrationEvent) error {
	args := p.Called(ctx, e)
	return args.Error(0)
}

// NewEventSink wires an in-memory store with the no-op dispatcher.
func NewEventSink() (*application.EventSink, *EventStore) {
	store := &EventStore{}
	return application.NewEventSink(store, Dispatcher{}), store
}
