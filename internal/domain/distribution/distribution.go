package distribution

import (
	"errors"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/alanyang/leadroute/internal/domain/agent"
	"github.com/alanyang/leadroute/internal/domain/lead"
)

var (
	// ErrNoRecords is returned when a distribution is attempted over an
	// empty record list. Nothing is written to the store.
	ErrNoRecords = errors.New("no records to distribute")

	// ErrNoEligibleAgents is returned when the owner has no active agents.
	// Nothing is written to the store.
	ErrNoEligibleAgents = errors.New("no active agents to distribute to")
)

// Batch is the persisted unit of one distribution run: the ordered records
// assigned to a single agent within one (owner, sourceKey) scope. Batches are
// replaced wholesale by the next run into the same scope, never mutated.
type Batch struct {
	ID        uuid.UUID     `json:"id"`
	OwnerID   uuid.UUID     `json:"owner_id"`
	SourceKey string        `json:"source_key"`
	AgentID   uuid.UUID     `json:"agent_id"`
	Items     []lead.Record `json:"items"`
	CreatedAt time.Time     `json:"created_at"`
}

// Partition deals records across agents round-robin: record i goes to
// agents[i mod n], so each agent's list keeps the records' original relative
// order and list sizes differ by at most one. Agent order is taken as given;
// the caller's eligibility query defines it.
func Partition(records []lead.Record, agents []agent.Agent) (map[uuid.UUID][]lead.Record, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	if len(agents) == 0 {
		return nil, ErrNoEligibleAgents
	}

	n := len(agents)
	out := make(map[uuid.UUID][]lead.Record, n)
	for _, a := range agents {
		out[a.ID] = nil
	}
	for i, r := range records {
		id := agents[i%n].ID
		out[id] = append(out[id], r)
	}
	return out, nil
}

// Batches builds the persistable batch set for one run, in agent order,
// skipping agents that received nothing (more agents than records).
func Batches(ownerID uuid.UUID, sourceKey string, agents []agent.Agent, partition map[uuid.UUID][]lead.Record) []Batch {
	now := time.Now().UTC()
	batches := make([]Batch, 0, len(agents))
	for _, a := range agents {
		items := partition[a.ID]
		if len(items) == 0 {
			continue
		}
		batches = append(batches, Batch{
			ID:        uuid.New(),
			OwnerID:   ownerID,
			SourceKey: sourceKey,
			AgentID:   a.ID,
			Items:     items,
			CreatedAt: now,
		})
	}
	return batches
}

// ScopeLockKey maps an (owner, sourceKey) scope onto an advisory-lock key so
// concurrent uploads into the same scope serialise while distinct scopes
// proceed independently.
func ScopeLockKey(ownerID uuid.UUID, sourceKey string) int64 {
	h := fnv.New64a()
	h.Write(ownerID[:])
	h.Write([]byte(sourceKey))
	return int64(h.Sum64())
}
