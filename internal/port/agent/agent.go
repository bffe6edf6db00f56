package agent

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domainagent "github.com/alanyang/leadroute/internal/domain/agent"
)

// ErrNotFound is returned for lookups outside the owner's namespace as well
// as for genuinely missing agents, so callers cannot probe other tenants.
var ErrNotFound = errors.New("agent not found")

// Repository manages agent state in the database. Every method is scoped to a
// single owner; an agent is invisible outside its owner's namespace.
type Repository interface {
	Create(ctx context.Context, a domainagent.Agent) (domainagent.Agent, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (domainagent.Agent, error)
	GetByEmail(ctx context.Context, ownerID uuid.UUID, email string) (domainagent.Agent, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]domainagent.Agent, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, fields domainagent.UpdateFields) (domainagent.Agent, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// ListActive returns the owner's active agents in creation order. This
	// ordering is the distribution eligibility order and must be stable.
	ListActive(ctx context.Context, ownerID uuid.UUID) ([]domainagent.Agent, error)
}
