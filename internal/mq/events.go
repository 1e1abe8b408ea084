package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/exercise-tracker/apiserver/types"
)

const eventContentType = "application/json"

// PublishEvent encodes the event as JSON and publishes it, keyed by user so
// backends that support ordering keep one user's events in order.
func (m *MQ) PublishEvent(ctx context.Context, event types.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	attrs := map[string]string{
		AttrEventType:   event.Type,
		AttrContentType: eventContentType,
		AttrOrderingKey: event.UserID,
	}
	if _, err := m.backend.Publish(ctx, m.channel, data, attrs); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// DecodeEvent reads an event published by PublishEvent.
func DecodeEvent(msg Message) (types.Event, error) {
	var event types.Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		return types.Event{}, fmt.Errorf("decode message %s: %w", msg.ID, err)
	}
	if event.Type == "" {
		event.Type = msg.Attributes[AttrEventType]
	}
	return event, nil
}
