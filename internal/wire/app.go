package wire

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	pgdb "github.com/alanyang/leadroute/internal/adapter/postgres"
	pgagent "github.com/alanyang/leadroute/internal/adapter/postgres/agent"
	pgdist "github.com/alanyang/leadroute/internal/adapter/postgres/distribution"
	pglocker "github.com/alanyang/leadroute/internal/adapter/postgres/locker"
	pguser "github.com/alanyang/leadroute/internal/adapter/postgres/user"

	agentsvc "github.com/alanyang/leadroute/internal/service/agent"
	authsvc "github.com/alanyang/leadroute/internal/service/auth"
	distsvc "github.com/alanyang/leadroute/internal/service/distributor"

	"github.com/alanyang/leadroute/internal/transport"
	"github.com/alanyang/leadroute/internal/transport/ws"
)

// App holds the top-level resources needed to run and gracefully stop the server.
type App struct {
	Pool   *pgxpool.Pool
	Server *http.Server
}

// Build is the composition root: the only place concrete types are wired to
// their interface dependencies.
func Build(ctx context.Context) (*App, error) {
	// ── Database ─────────────────────────────────────────────────────────────
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}
	pool, err := pgdb.Connect(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		pool.Close()
		return nil, fmt.Errorf("JWT_SECRET not set")
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = os.TempDir()
	}

	// ── Adapters ─────────────────────────────────────────────────────────────
	userRepo := pguser.New(pool)
	agentRepo := pgagent.New(pool)
	distRepo := pgdist.New(pool)
	locker := pglocker.New(pool)

	// ── Services ─────────────────────────────────────────────────────────────
	hub := ws.NewHub()

	authSvcInstance := authsvc.NewService(userRepo, []byte(secret))
	agentSvcInstance := agentsvc.NewService(agentRepo, hub)
	distSvcInstance := distsvc.NewService(agentRepo, distRepo, locker, hub)

	// ── Transport ────────────────────────────────────────────────────────────
	router := transport.NewRouter(authSvcInstance, agentSvcInstance, distSvcInstance, hub, uploadDir)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	slog.Info("application wired", "port", port, "upload_dir", uploadDir)

	return &App{Pool: pool, Server: server}, nil
}
