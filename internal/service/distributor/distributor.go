package distributor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/alanyang/leadroute/internal/domain/agent"
	"github.com/alanyang/leadroute/internal/domain/distribution"
	"github.com/alanyang/leadroute/internal/domain/event"
	"github.com/alanyang/leadroute/internal/domain/lead"
	portagent "github.com/alanyang/leadroute/internal/port/agent"
	portdist "github.com/alanyang/leadroute/internal/port/distribution"
	portlocker "github.com/alanyang/leadroute/internal/port/locker"
	portnotifier "github.com/alanyang/leadroute/internal/port/notifier"
)

// Service runs distributions: it partitions parsed records across the owner's
// active agents and atomically replaces the (owner, sourceKey) scope in the
// store. Partitioning itself is pure (domain/distribution); everything
// side-effectful lives here.
type Service struct {
	agents   portagent.Repository
	batches  portdist.Repository
	locker   portlocker.AdvisoryLocker
	notifier portnotifier.Broadcaster
}

func NewService(
	agents portagent.Repository,
	batches portdist.Repository,
	locker portlocker.AdvisoryLocker,
	notifier portnotifier.Broadcaster,
) *Service {
	return &Service{agents: agents, batches: batches, locker: locker, notifier: notifier}
}

// AgentResult is one agent's share of a distribution run.
type AgentResult struct {
	Agent agent.Summary `json:"agent"`
	Items []lead.Record `json:"items"`
}

// Result is what one successful run handed to each agent, in eligibility order.
type Result struct {
	SourceKey   string        `json:"source_key"`
	TotalItems  int           `json:"total_items"`
	AgentsUsed  int           `json:"agents_used"`
	Assignments []AgentResult `json:"assignments"`
}

// Distribute partitions records round-robin across the owner's active agents
// and replaces any prior run for the same sourceKey. The eligibility snapshot
// is read fresh on every run: agents deactivated since the last upload simply
// stop receiving records.
//
// Failure modes: distribution.ErrNoRecords and distribution.ErrNoEligibleAgents
// reject the run before any store mutation; store errors surface wrapped, and
// because the replace is transactional they leave the previous run intact.
func (s *Service) Distribute(ctx context.Context, ownerID uuid.UUID, sourceKey string, records []lead.Record) (Result, error) {
	if len(records) == 0 {
		return Result{}, distribution.ErrNoRecords
	}

	eligible, err := s.agents.ListActive(ctx, ownerID)
	if err != nil {
		return Result{}, fmt.Errorf("list active agents: %w", err)
	}
	if len(eligible) == 0 {
		return Result{}, distribution.ErrNoEligibleAgents
	}

	partition, err := distribution.Partition(records, eligible)
	if err != nil {
		return Result{}, err
	}
	batches := distribution.Batches(ownerID, sourceKey, eligible, partition)

	// Concurrent uploads into the same scope serialise here; different
	// scopes and owners hash to different lock keys and run in parallel.
	lockKey := distribution.ScopeLockKey(ownerID, sourceKey)
	err = s.locker.WithLock(ctx, lockKey, func(ctx context.Context) error {
		return s.batches.ReplaceScope(ctx, ownerID, sourceKey, batches)
	})
	if err != nil {
		return Result{}, fmt.Errorf("replace distribution scope %q: %w", sourceKey, err)
	}

	s.notifier.Broadcast(event.New(event.TypeDistributionComplete, ownerID, ownerID))
	slog.InfoContext(ctx, "distribution committed",
		"owner_id", ownerID,
		"source_key", sourceKey,
		"records", len(records),
		"agents", len(eligible),
	)

	result := Result{
		SourceKey:  sourceKey,
		TotalItems: len(records),
		AgentsUsed: len(eligible),
	}
	for _, a := range eligible {
		items := partition[a.ID]
		if len(items) == 0 {
			continue
		}
		result.Assignments = append(result.Assignments, AgentResult{Agent: a.Summarize(), Items: items})
	}
	return result, nil
}

// ScopeGroup is one upload's worth of batches, grouped per agent.
type ScopeGroup struct {
	SourceKey  string        `json:"source_key"`
	UploadedAt time.Time     `json:"uploaded_at"`
	Agents     []AgentResult `json:"agents"`
}

// ListByOwner projects the owner's persisted batches into per-scope groups,
// newest upload first. Owners with no distributions get an empty slice.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]ScopeGroup, error) {
	rows, err := s.batches.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list distributions: %w", err)
	}

	byScope := make(map[string]*ScopeGroup)
	order := []string{}
	for _, row := range rows {
		g, ok := byScope[row.Batch.SourceKey]
		if !ok {
			g = &ScopeGroup{SourceKey: row.Batch.SourceKey, UploadedAt: row.Batch.CreatedAt}
			byScope[row.Batch.SourceKey] = g
			order = append(order, row.Batch.SourceKey)
		}
		if row.Batch.CreatedAt.After(g.UploadedAt) {
			g.UploadedAt = row.Batch.CreatedAt
		}
		g.Agents = append(g.Agents, AgentResult{Agent: row.Agent, Items: row.Batch.Items})
	}

	groups := make([]ScopeGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, *byScope[key])
	}
	// Rows arrive newest-first; keep that ordering at the group level too.
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].UploadedAt.After(groups[j].UploadedAt)
	})
	return groups, nil
}
