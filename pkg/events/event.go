package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all portal events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "VIABILITY_APPROVED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used on both the publish and
// consume side of the bus.
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

// Viability request lifecycle event codes. The notification worker resolves
// these against the notification type registry.
const (
	TypeViabilityCreated     = "VIABILITY_CREATED"
	TypeViabilityClaimed     = "VIABILITY_CLAIMED"
	TypeViabilityApproved    = "VIABILITY_APPROVED"
	TypeViabilityRejected    = "VIABILITY_REJECTED"
	TypeViabilityRescheduled = "VIABILITY_RESCHEDULED"
	TypePasswordReset        = "USER_PASSWORD_RESET"
)

// NewViabilityEvent builds a lifecycle event for a request. The requester is
// the notification target; the actor is the auditor who acted (uuid.Nil for
// requester-initiated events).
func NewViabilityEvent(eventType string, requestID, requesterID, actorID uuid.UUID, extra map[string]interface{}) BaseEvent {
	data := map[string]interface{}{
		"request_id": requestID.String(),
		"user_id":    requesterID.String(),
	}
	if actorID != uuid.Nil {
		data["actor_id"] = actorID.String()
	}
	for k, v := range extra {
		data[k] = v
	}
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
