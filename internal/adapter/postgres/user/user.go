package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainuser "github.com/alanyang/leadroute/internal/domain/user"
	portuser "github.com/alanyang/leadroute/internal/port/user"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, u domainuser.User) (domainuser.User, error) {
	query := `
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, name, email, password_hash, created_at`

	var created domainuser.User
	err := r.pool.QueryRow(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt,
	).Scan(&created.ID, &created.Name, &created.Email, &created.PasswordHash, &created.CreatedAt)
	if err != nil {
		return domainuser.User{}, fmt.Errorf("inserting user: %w", err)
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domainuser.User, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM users WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (domainuser.User, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM users WHERE email = $1`
	return r.scanOne(ctx, query, email)
}

func (r *Repository) scanOne(ctx context.Context, query string, args ...interface{}) (domainuser.User, error) {
	var u domainuser.User
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainuser.User{}, portuser.ErrNotFound
		}
		return domainuser.User{}, fmt.Errorf("querying user: %w", err)
	}
	return u, nil
}
