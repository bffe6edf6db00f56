package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainagent "github.com/alanyang/leadroute/internal/domain/agent"
	portagent "github.com/alanyang/leadroute/internal/port/agent"
)

const columns = "id, owner_id, name, email, phone, password_hash, status, created_at"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, a domainagent.Agent) (domainagent.Agent, error) {
	query := `
		INSERT INTO agents (` + columns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING ` + columns

	var created domainagent.Agent
	err := r.pool.QueryRow(ctx, query,
		a.ID, a.OwnerID, a.Name, a.Email, a.Phone, a.PasswordHash, a.Status, a.CreatedAt,
	).Scan(
		&created.ID, &created.OwnerID, &created.Name, &created.Email,
		&created.Phone, &created.PasswordHash, &created.Status, &created.CreatedAt,
	)
	if err != nil {
		return domainagent.Agent{}, fmt.Errorf("inserting agent: %w", err)
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domainagent.Agent, error) {
	query := `SELECT ` + columns + ` FROM agents WHERE id = $1 AND owner_id = $2`
	return r.scanOne(ctx, query, id, ownerID)
}

func (r *Repository) GetByEmail(ctx context.Context, ownerID uuid.UUID, email string) (domainagent.Agent, error) {
	query := `SELECT ` + columns + ` FROM agents WHERE owner_id = $1 AND email = $2`
	return r.scanOne(ctx, query, ownerID, email)
}

func (r *Repository) List(ctx context.Context, ownerID uuid.UUID) ([]domainagent.Agent, error) {
	query := `SELECT ` + columns + ` FROM agents WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing agents: %w", err)
	}
	defer rows.Close()

	return scanAgents(rows)
}

// ListActive orders by created_at ASC: this is the distribution eligibility
// order, so it must be stable across calls.
func (r *Repository) ListActive(ctx context.Context, ownerID uuid.UUID) ([]domainagent.Agent, error) {
	query := `
		SELECT ` + columns + ` FROM agents
		WHERE owner_id = $1 AND status = 'active'
		ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing active agents: %w", err)
	}
	defer rows.Close()

	return scanAgents(rows)
}

func (r *Repository) Update(ctx context.Context, ownerID, id uuid.UUID, fields domainagent.UpdateFields) (domainagent.Agent, error) {
	query := `UPDATE agents SET id = id`
	args := []interface{}{}
	argIdx := 1

	if fields.Name != nil {
		query += fmt.Sprintf(", name = $%d", argIdx)
		args = append(args, *fields.Name)
		argIdx++
	}
	if fields.Email != nil {
		query += fmt.Sprintf(", email = $%d", argIdx)
		args = append(args, *fields.Email)
		argIdx++
	}
	if fields.Phone != nil {
		query += fmt.Sprintf(", phone = $%d", argIdx)
		args = append(args, *fields.Phone)
		argIdx++
	}
	if fields.Status != nil {
		query += fmt.Sprintf(", status = $%d", argIdx)
		args = append(args, string(*fields.Status))
		argIdx++
	}
	if fields.PasswordHash != nil {
		query += fmt.Sprintf(", password_hash = $%d", argIdx)
		args = append(args, *fields.PasswordHash)
		argIdx++
	}

	query += fmt.Sprintf(" WHERE id = $%d AND owner_id = $%d RETURNING ", argIdx, argIdx+1) + columns
	args = append(args, id, ownerID)

	var a domainagent.Agent
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&a.ID, &a.OwnerID, &a.Name, &a.Email,
		&a.Phone, &a.PasswordHash, &a.Status, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainagent.Agent{}, portagent.ErrNotFound
		}
		return domainagent.Agent{}, fmt.Errorf("updating agent: %w", err)
	}
	return a, nil
}

func (r *Repository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM agents WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting agent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return portagent.ErrNotFound
	}
	return nil
}

func (r *Repository) scanOne(ctx context.Context, query string, args ...interface{}) (domainagent.Agent, error) {
	var a domainagent.Agent
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&a.ID, &a.OwnerID, &a.Name, &a.Email,
		&a.Phone, &a.PasswordHash, &a.Status, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainagent.Agent{}, portagent.ErrNotFound
		}
		return domainagent.Agent{}, fmt.Errorf("querying agent: %w", err)
	}
	return a, nil
}

func scanAgents(rows pgx.Rows) ([]domainagent.Agent, error) {
	var agents []domainagent.Agent
	for rows.Next() {
		var a domainagent.Agent
		if err := rows.Scan(
			&a.ID, &a.OwnerID, &a.Name, &a.Email,
			&a.Phone, &a.PasswordHash, &a.Status, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning agent row: %w", err)
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}
