package events

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/narwhalmedia/catalog/internal/domain/events"
	"github.com/narwhalmedia/catalog/internal/domain/video"
)

// InMemoryDomainEventDispatcher dispatches domain events synchronously in-process
type InMemoryDomainEventDispatcher struct {
	handlers map[string][]events.DomainEventHandler
	mu       sync.RWMutex
}

func NewInMemoryDomainEventDispatcher() *InMemoryDomainEventDispatcher {
	return &InMemoryDomainEventDispatcher{
		handlers: make(map[string][]events.DomainEventHandler),
	}
}

// RegisterHandler registers a handler for specific event types
func (d *InMemoryDomainEventDispatcher) RegisterHandler(handler events.DomainEventHandler, eventTypes ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, eventType := range eventTypes {
		d.handlers[eventType] = append(d.handlers[eventType], handler)
	}
}

// Dispatch runs the handlers of every event in order and stops at the
// first failure, which rolls back the caller's transaction.
func (d *InMemoryDomainEventDispatcher) Dispatch(ctx context.Context, evts ...events.DomainEvent) error {
	for _, event := range evts {
		d.mu.RLock()
		handlers := d.handlers[event.EventType()]
		d.mu.RUnlock()

		for _, handler := range handlers {
			if !handler.CanHandle(event.EventType()) {
				continue
			}
			if err := handler.HandleDomainEvent(ctx, event); err != nil {
				return fmt.Errorf("handler error for event %s: %w", event.EventType(), err)
			}
		}
	}
	return nil
}

// FuncHandler adapts a function to events.DomainEventHandler.
type FuncHandler struct {
	eventTypes map[string]bool
	handlerFn  func(ctx context.Context, event events.DomainEvent) error
}

func NewFuncHandler(handlerFn func(ctx context.Context, event events.DomainEvent) error, eventTypes ...string) *FuncHandler {
	eventTypeMap := make(map[string]bool, len(eventTypes))
	for _, et := range eventTypes {
		eventTypeMap[et] = true
	}
	return &FuncHandler{eventTypes: eventTypeMap, handlerFn: handlerFn}
}

func (h *FuncHandler) HandleDomainEvent(ctx context.Context, event events.DomainEvent) error {
	return h.handlerFn(ctx, event)
}

func (h *FuncHandler) CanHandle(eventType string) bool {
	return h.eventTypes[eventType]
}

// RegisterAuditHandlers logs the video lifecycle events worth an audit trail.
func RegisterAuditHandlers(d events.DomainEventDispatcher, logger *zap.Logger) {
	audit := logger.Named("audit")
	d.RegisterHandler(NewFuncHandler(func(_ context.Context, e events.DomainEvent) error {
		fields := []zap.Field{
			zap.String("event_type", e.EventType()),
			zap.String("aggregate_id", e.AggregateID().String()),
		}
		switch ev := e.(type) {
		case *video.AudioMediaProcessed:
			fields = append(fields,
				zap.String("field", string(ev.Field)),
				zap.String("status", string(ev.Status)),
			)
		case *video.AudioMediaReplaced:
			fields = append(fields, zap.String("field", string(ev.Field)))
		}
		audit.Info("Video media event", fields...)
		return nil
	},
		video.EventTypeAudioMediaReplaced,
		video.EventTypeAudioMediaProcessed,
		video.EventTypeVideoPublished,
	),
		video.EventTypeAudioMediaReplaced,
		video.EventTypeAudioMediaProcessed,
		video.EventTypeVideoPublished,
	)
}
