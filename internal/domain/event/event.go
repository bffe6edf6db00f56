package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeAgentCreated         Type = "agent_created"
	TypeAgentUpdated         Type = "agent_updated"
	TypeAgentDeleted         Type = "agent_deleted"
	TypeDistributionComplete Type = "distribution_complete"
)

// Event carries identifiers only, not full state.
// Subscribers fetch fresh state from the appropriate endpoint.
// OwnerID scopes delivery: an event is only ever pushed to the owner's
// own clients.
type Event struct {
	Type      Type      `json:"type"`
	OwnerID   uuid.UUID `json:"owner_id"`
	EntityID  uuid.UUID `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
}

func New(eventType Type, ownerID, entityID uuid.UUID) Event {
	return Event{
		Type:      eventType,
		OwnerID:   ownerID,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
}
