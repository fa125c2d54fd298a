package service

import (
	"context"

	"collabnote-be/internal/pkg/logger"
	"collabnote-be/pkg/events"
)

// EventPublisher is satisfied by the NATS publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// EventRelay forwards note lifecycle events from the in-process bus to an
// external broker.
type EventRelay struct {
	publisher EventPublisher
	logger    logger.ILogger
}

func NewEventRelay(publisher EventPublisher, log logger.ILogger) *EventRelay {
	return &EventRelay{publisher: publisher, logger: log}
}

func (r *EventRelay) Register(bus *events.Bus) error {
	for _, eventType := range events.NoteEventTypes {
		if err := bus.Subscribe(eventType, "event-relay", r.forward); err != nil {
			return err
		}
	}
	return nil
}

func (r *EventRelay) forward(ctx context.Context, event events.Event) error {
	if err := r.publisher.Publish(ctx, event); err != nil {
		r.logger.Warn("EVENT_RELAY", "Failed to relay event", map[string]interface{}{
			"event_type": event.EventType(),
			"error":      err.Error(),
		})
		return err
	}
	r.logger.Debug("EVENT_RELAY", "Event relayed", map[string]interface{}{"event_type": event.EventType()})
	return nil
}
