package events

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/narwhalmedia/catalog/internal/domain/events"
	"github.com/narwhalmedia/catalog/internal/domain/video"
)

// Routes maps integration event types to broker routing keys.
type Routes map[string]string

// DefaultRoutes sends upload notifications to the encoder.
func DefaultRoutes(uploadRoutingKey string) Routes {
	return Routes{video.EventTypeAudioMediaUploaded: uploadRoutingKey}
}

// IntegrationEventPublisher sends an integration event's payload, without
// any envelope, to the routing key configured for its type.
type IntegrationEventPublisher struct {
	bus    Bus
	routes Routes
	logger *zap.Logger
}

func NewIntegrationEventPublisher(bus Bus, routes Routes, logger *zap.Logger) *IntegrationEventPublisher {
	return &IntegrationEventPublisher{bus: bus, routes: routes, logger: logger.Named("publisher")}
}

func (p *IntegrationEventPublisher) PublishIntegrationEvent(ctx context.Context, event events.IntegrationEvent) error {
	key, ok := p.routes[event.EventType()]
	if !ok {
		return fmt.Errorf("no route for integration event %s", event.EventType())
	}

	body, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("marshal integration event: %w", err)
	}

	msg := Message{
		Key:  key,
		Body: body,
		Headers: map[string]string{
			HeaderMessageID: event.ID().String(),
			HeaderEventType: event.EventType(),
		},
	}
	if id := event.CorrelationID(); id != "" {
		msg.Headers[HeaderCorrelationID] = id
	}

	if err := p.bus.Publish(ctx, msg); err != nil {
		return fmt.Errorf("publish to event bus: %w", err)
	}

	p.logger.Info("Integration event published",
		zap.String("event_id", event.ID().String()),
		zap.String("event_type", event.EventType()),
		zap.String("routing_key", key),
	)
	return nil
}
