package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "TURN_PROCESSED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a plain implementation for events that carry no extra
// behavior.
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

// NewTurnProcessed builds the event emitted after every completed
// dialog turn.
func NewTurnProcessed(userID, responseType string) Event {
	return BaseEvent{
		Type: "TURN_PROCESSED",
		Data: map[string]interface{}{
			"user_id":       userID,
			"response_type": responseType,
		},
		OccurredAt: time.Now(),
	}
}
