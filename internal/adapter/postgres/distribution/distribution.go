package distribution

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domaindist "github.com/alanyang/leadroute/internal/domain/distribution"
	"github.com/alanyang/leadroute/internal/domain/lead"
	portdist "github.com/alanyang/leadroute/internal/port/distribution"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ReplaceScope swaps the batch set for one (owner, sourceKey) scope inside a
// single transaction. Readers see either the previous run or the new one.
func (r *Repository) ReplaceScope(ctx context.Context, ownerID uuid.UUID, sourceKey string, batches []domaindist.Batch) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("beginning replace transaction: %w", err)
	}
	defer tx.Rollback(context.Background()) //nolint:errcheck

	_, err = tx.Exec(ctx,
		`DELETE FROM distribution_batches WHERE owner_id = $1 AND source_key = $2`,
		ownerID, sourceKey,
	)
	if err != nil {
		return fmt.Errorf("deleting prior batches: %w", err)
	}

	for _, b := range batches {
		itemsJSON, err := json.Marshal(b.Items)
		if err != nil {
			return fmt.Errorf("marshaling batch items: %w", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO distribution_batches (id, owner_id, source_key, agent_id, items, created_at)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			b.ID, b.OwnerID, b.SourceKey, b.AgentID, itemsJSON, b.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting batch for agent %s: %w", b.AgentID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing replace transaction: %w", err)
	}
	return nil
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]portdist.BatchRow, error) {
	query := `
		SELECT b.id, b.owner_id, b.source_key, b.agent_id, b.items, b.created_at,
			a.name, a.email
		FROM distribution_batches b
		JOIN agents a ON a.id = b.agent_id
		WHERE b.owner_id = $1
		ORDER BY b.created_at DESC, b.id`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}
	defer rows.Close()

	result := []portdist.BatchRow{}
	for rows.Next() {
		var row portdist.BatchRow
		var itemsJSON []byte
		if err := rows.Scan(
			&row.Batch.ID, &row.Batch.OwnerID, &row.Batch.SourceKey, &row.Batch.AgentID,
			&itemsJSON, &row.Batch.CreatedAt,
			&row.Agent.Name, &row.Agent.Email,
		); err != nil {
			return nil, fmt.Errorf("scanning batch row: %w", err)
		}
		var items []lead.Record
		if err := json.Unmarshal(itemsJSON, &items); err != nil {
			return nil, fmt.Errorf("unmarshaling batch items: %w", err)
		}
		row.Batch.Items = items
		row.Agent.ID = row.Batch.AgentID
		result = append(result, row)
	}
	return result, rows.Err()
}
