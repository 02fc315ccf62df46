package gorm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/narwhalmedia/catalog/internal/domain/events"
)

// EventStore implements events.EventStore on the stored_events table.
type EventStore struct {
	db *gorm.DB
}

// NewEventStore creates a new GORM event store
func NewEventStore(db *gorm.DB) *EventStore {
	return &EventStore{db: db}
}

// Append stores events in the transaction carried by ctx, if any.
func (s *EventStore) Append(ctx context.Context, evts ...events.Event) error {
	if len(evts) == 0 {
		return nil
	}
	models := make([]EventModel, len(evts))
	for i, e := range evts {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", e.EventType(), err)
		}
		models[i] = EventModel{
			ID:            e.ID(),
			AggregateID:   e.AggregateID(),
			AggregateType: e.AggregateType(),
			EventType:     e.EventType(),
			Version:       e.Version(),
			Payload:       string(payload),
			OccurredAt:    e.OccurredAt(),
		}
	}
	return conn(ctx, s.db).Create(&models).Error
}

// ListByAggregate returns the events of one aggregate, oldest first.
func (s *EventStore) ListByAggregate(ctx context.Context, aggregateID uuid.UUID) ([]events.StoredEvent, error) {
	var models []EventModel
	err := conn(ctx, s.db).
		Where("aggregate_id = ?", aggregateID).
		Order("occurred_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]events.StoredEvent, len(models))
	for i, m := range models {
		out[i] = events.StoredEvent{
			ID:            m.ID,
			AggregateID:   m.AggregateID,
			AggregateType: m.AggregateType,
			EventType:     m.EventType,
			Version:       m.Version,
			Payload:       []byte(m.Payload),
			OccurredAt:    m.OccurredAt,
		}
	}
	return out, nil
}
