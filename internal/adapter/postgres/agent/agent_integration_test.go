//go:build integration

package agent_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgagent "github.com/alanyang/leadroute/internal/adapter/postgres/agent"
	pguser "github.com/alanyang/leadroute/internal/adapter/postgres/user"
	domainagent "github.com/alanyang/leadroute/internal/domain/agent"
	domainuser "github.com/alanyang/leadroute/internal/domain/user"
	portagent "github.com/alanyang/leadroute/internal/port/agent"
	"github.com/alanyang/leadroute/internal/testutil"
)

func createOwner(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	u, err := pguser.New(pool).Create(context.Background(),
		domainuser.New("Owner", fmt.Sprintf("owner-%s@example.com", uuid.NewString()), "hash"))
	require.NoError(t, err)
	return u.ID
}

func TestAgentCRUD(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := pgagent.New(pool)
	ctx := context.Background()
	ownerID := createOwner(t, pool)

	created, err := repo.Create(ctx, domainagent.New(ownerID, "Agent One", "one@example.com", "+15550001", "hash1", domainagent.StatusActive))
	require.NoError(t, err)
	assert.Equal(t, ownerID, created.OwnerID)

	got, err := repo.GetByID(ctx, ownerID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Agent One", got.Name)
	assert.Equal(t, domainagent.StatusActive, got.Status)

	byEmail, err := repo.GetByEmail(ctx, ownerID, "one@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	newName := "Agent Renamed"
	inactive := domainagent.StatusInactive
	updated, err := repo.Update(ctx, ownerID, created.ID, domainagent.UpdateFields{Name: &newName, Status: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Agent Renamed", updated.Name)
	assert.Equal(t, domainagent.StatusInactive, updated.Status)
	// Untouched fields survive a partial update.
	assert.Equal(t, "+15550001", updated.Phone)

	require.NoError(t, repo.Delete(ctx, ownerID, created.ID))

	_, err = repo.GetByID(ctx, ownerID, created.ID)
	assert.ErrorIs(t, err, portagent.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, ownerID, created.ID), portagent.ErrNotFound)
}

func TestAgentOwnerIsolation(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := pgagent.New(pool)
	ctx := context.Background()

	ownerA := createOwner(t, pool)
	ownerB := createOwner(t, pool)

	a, err := repo.Create(ctx, domainagent.New(ownerA, "A's Agent", "a@example.com", "+1", "hash", domainagent.StatusActive))
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, ownerB, a.ID)
	assert.ErrorIs(t, err, portagent.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, ownerB, a.ID), portagent.ErrNotFound)

	list, err := repo.List(ctx, ownerB)
	require.NoError(t, err)
	assert.Empty(t, list)

	// The same email is allowed under a different owner.
	_, err = repo.Create(ctx, domainagent.New(ownerB, "B's Agent", "a@example.com", "+2", "hash", domainagent.StatusActive))
	assert.NoError(t, err)
}

func TestListActiveOrderAndFilter(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := pgagent.New(pool)
	ctx := context.Background()
	ownerID := createOwner(t, pool)

	mk := func(name, email string, status domainagent.Status, createdAt time.Time) domainagent.Agent {
		a := domainagent.New(ownerID, name, email, "+1", "hash", status)
		a.CreatedAt = createdAt
		created, err := repo.Create(ctx, a)
		require.NoError(t, err)
		return created
	}

	base := time.Now().UTC().Truncate(time.Second)
	second := mk("Second", "second@example.com", domainagent.StatusActive, base.Add(time.Minute))
	mk("Paused", "paused@example.com", domainagent.StatusInactive, base.Add(2*time.Minute))
	first := mk("First", "first@example.com", domainagent.StatusActive, base)

	active, err := repo.ListActive(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, first.ID, active[0].ID)
	assert.Equal(t, second.ID, active[1].ID)
}
