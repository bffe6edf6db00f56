package distribution

import (
	"context"

	"github.com/google/uuid"

	domainagent "github.com/alanyang/leadroute/internal/domain/agent"
	domaindist "github.com/alanyang/leadroute/internal/domain/distribution"
)

// BatchRow is a persisted batch joined with its agent's display metadata.
type BatchRow struct {
	Batch domaindist.Batch
	Agent domainagent.Summary
}

// Repository is the durable store for distribution batches.
type Repository interface {
	// ReplaceScope atomically swaps the (ownerID, sourceKey) scope for the
	// given batch set: existing batches are deleted and the new ones inserted
	// in a single transaction, so concurrent readers observe either the old
	// run or the new one, never an empty or mixed scope.
	ReplaceScope(ctx context.Context, ownerID uuid.UUID, sourceKey string, batches []domaindist.Batch) error

	// ListByOwner returns every batch in the owner's namespace joined with
	// agent summaries, newest runs first. An owner with no batches gets an
	// empty slice, not an error.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]BatchRow, error)
}
