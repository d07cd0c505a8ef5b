package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	ContactCreated   = "CONTACT_CREATED"
	ContactUpdated   = "CONTACT_UPDATED"
	ContactDeleted   = "CONTACT_DELETED"
	ContactsReloaded = "CONTACTS_RELOADED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CONTACT_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

type envelope struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

// Encode writes the wire form shared by every transport.
func Encode(e Event) ([]byte, error) {
	return json.Marshal(envelope{Type: e.EventType(), OccurredAt: e.Timestamp(), Data: e.Payload()})
}

func Decode(raw []byte) (BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return BaseEvent{}, fmt.Errorf("failed to decode event: %w", err)
	}
	if env.Type == "" {
		return BaseEvent{}, fmt.Errorf("failed to decode event: missing type")
	}
	return BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}, nil
}
