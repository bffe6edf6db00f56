package distribution_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainagent "github.com/alanyang/leadroute/internal/domain/agent"
	"github.com/alanyang/leadroute/internal/domain/distribution"
	"github.com/alanyang/leadroute/internal/domain/lead"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func makeAgents(n int) []domainagent.Agent {
	agents := make([]domainagent.Agent, n)
	for i := range agents {
		agents[i] = domainagent.Agent{ID: uuid.New(), Status: domainagent.StatusActive}
	}
	return agents
}

func makeRecords(n int) []lead.Record {
	records := make([]lead.Record, n)
	for i := range records {
		records[i] = lead.Record{
			FirstName: fmt.Sprintf("lead-%d", i),
			Phone:     fmt.Sprintf("+1555000%04d", i),
		}
	}
	return records
}

// ── Partition ─────────────────────────────────────────────────────────────────

func TestPartition_RoundRobin(t *testing.T) {
	tests := []struct {
		name      string
		records   int
		agents    int
		wantSizes []int
	}{
		{name: "5 records over 3 agents", records: 5, agents: 3, wantSizes: []int{2, 2, 1}},
		{name: "6 records over 2 agents", records: 6, agents: 2, wantSizes: []int{3, 3}},
		{name: "1 record over 4 agents", records: 1, agents: 4, wantSizes: []int{1, 0, 0, 0}},
		{name: "single agent takes everything", records: 7, agents: 1, wantSizes: []int{7}},
		{name: "even split", records: 9, agents: 3, wantSizes: []int{3, 3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := makeRecords(tt.records)
			agents := makeAgents(tt.agents)

			got, err := distribution.Partition(records, agents)
			require.NoError(t, err)
			require.Len(t, got, tt.agents)

			total := 0
			for i, a := range agents {
				assert.Len(t, got[a.ID], tt.wantSizes[i], "agent %d", i)
				total += len(got[a.ID])
			}
			assert.Equal(t, tt.records, total, "every record assigned exactly once")
		})
	}
}

func TestPartition_AssignsByIndexModulo(t *testing.T) {
	// 5 records over 3 agents: agent 0 gets rows {0,3}, agent 1 {1,4}, agent 2 {2}.
	records := makeRecords(5)
	agents := makeAgents(3)

	got, err := distribution.Partition(records, agents)
	require.NoError(t, err)

	assert.Equal(t, []lead.Record{records[0], records[3]}, got[agents[0].ID])
	assert.Equal(t, []lead.Record{records[1], records[4]}, got[agents[1].ID])
	assert.Equal(t, []lead.Record{records[2]}, got[agents[2].ID])
}

func TestPartition_AlternatesTwoAgents(t *testing.T) {
	records := makeRecords(6)
	agents := makeAgents(2)

	got, err := distribution.Partition(records, agents)
	require.NoError(t, err)

	assert.Equal(t, []lead.Record{records[0], records[2], records[4]}, got[agents[0].ID])
	assert.Equal(t, []lead.Record{records[1], records[3], records[5]}, got[agents[1].ID])
}

func TestPartition_NoDuplicatesNoDrops(t *testing.T) {
	records := makeRecords(103)
	agents := makeAgents(7)

	got, err := distribution.Partition(records, agents)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, items := range got {
		for _, r := range items {
			seen[r.FirstName]++
		}
	}
	require.Len(t, seen, len(records))
	for name, count := range seen {
		assert.Equal(t, 1, count, "record %s assigned more than once", name)
	}
}

func TestPartition_EvennessBound(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 8} {
		for _, r := range []int{1, 4, 10, 31} {
			got, err := distribution.Partition(makeRecords(r), makeAgents(n))
			require.NoError(t, err)

			min, max := r, 0
			for _, items := range got {
				if len(items) < min {
					min = len(items)
				}
				if len(items) > max {
					max = len(items)
				}
			}
			assert.LessOrEqual(t, max-min, 1, "records=%d agents=%d", r, n)
		}
	}
}

func TestPartition_Deterministic(t *testing.T) {
	records := makeRecords(17)
	agents := makeAgents(4)

	first, err := distribution.Partition(records, agents)
	require.NoError(t, err)
	second, err := distribution.Partition(records, agents)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPartition_EmptyRecords(t *testing.T) {
	_, err := distribution.Partition(nil, makeAgents(2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, distribution.ErrNoRecords))
}

func TestPartition_NoAgents(t *testing.T) {
	_, err := distribution.Partition(makeRecords(3), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, distribution.ErrNoEligibleAgents))
}

// ── Batches ───────────────────────────────────────────────────────────────────

func TestBatches_PreservesAgentOrderAndSkipsEmpty(t *testing.T) {
	ownerID := uuid.New()
	records := makeRecords(2)
	agents := makeAgents(3)

	partition, err := distribution.Partition(records, agents)
	require.NoError(t, err)

	batches := distribution.Batches(ownerID, "leads.csv", agents, partition)
	// Third agent received nothing — no empty batch is persisted for it.
	require.Len(t, batches, 2)
	assert.Equal(t, agents[0].ID, batches[0].AgentID)
	assert.Equal(t, agents[1].ID, batches[1].AgentID)
	for _, b := range batches {
		assert.Equal(t, ownerID, b.OwnerID)
		assert.Equal(t, "leads.csv", b.SourceKey)
		assert.NotEqual(t, uuid.Nil, b.ID)
		assert.False(t, b.CreatedAt.IsZero())
	}
}

// ── ScopeLockKey ──────────────────────────────────────────────────────────────

func TestScopeLockKey(t *testing.T) {
	ownerA, ownerB := uuid.New(), uuid.New()

	assert.Equal(t,
		distribution.ScopeLockKey(ownerA, "leads.csv"),
		distribution.ScopeLockKey(ownerA, "leads.csv"),
		"same scope hashes to the same key")
	assert.NotEqual(t,
		distribution.ScopeLockKey(ownerA, "leads.csv"),
		distribution.ScopeLockKey(ownerA, "other.csv"),
		"different source keys must not share a lock")
	assert.NotEqual(t,
		distribution.ScopeLockKey(ownerA, "leads.csv"),
		distribution.ScopeLockKey(ownerB, "leads.csv"),
		"different owners must not share a lock")
}
