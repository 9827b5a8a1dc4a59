// Package app wires configuration, repositories, services, and the HTTP
// transport into a runnable auction service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/zhangzheng888/gridiron-auction/internal/config"
	"github.com/zhangzheng888/gridiron-auction/internal/domain/draft"
	"github.com/zhangzheng888/gridiron-auction/internal/domain/league"
	"github.com/zhangzheng888/gridiron-auction/internal/domain/player"
	"github.com/zhangzheng888/gridiron-auction/internal/domain/team"
	"github.com/zhangzheng888/gridiron-auction/internal/infrastructure/account/clubhouse"
	"github.com/zhangzheng888/gridiron-auction/internal/infrastructure/notifier"
	"github.com/zhangzheng888/gridiron-auction/internal/infrastructure/repository/memory"
	"github.com/zhangzheng888/gridiron-auction/internal/infrastructure/repository/postgres"
	"github.com/zhangzheng888/gridiron-auction/internal/interfaces/httpapi"
	"github.com/zhangzheng888/gridiron-auction/internal/platform/cache"
	idgen "github.com/zhangzheng888/gridiron-auction/internal/platform/id"
	"github.com/zhangzheng888/gridiron-auction/internal/platform/resilience"
	"github.com/zhangzheng888/gridiron-auction/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// App owns the HTTP server and the background settlement sweeper.
type App struct {
	cfg     config.Config
	logger  *slog.Logger
	server  *http.Server
	hub     *notifier.Hub
	db      *sqlx.DB
	sweeper *usecase.SettlementSweeper
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, db, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	hub := notifier.NewHub(logger)
	idGen := idgen.NewRandomGenerator()

	leagueSvc := usecase.NewLeagueService(repos.leagues, repos.teams, idGen, logger)
	playerSvc := usecase.NewPlayerService(repos.players, store)
	draftSvc := usecase.NewDraftService(
		repos.drafts,
		repos.leagues,
		repos.teams,
		repos.players,
		hub,
		idGen,
		logger,
	)

	sweeper, err := usecase.NewSettlementSweeper(draftSvc, repos.drafts, cfg.SweepInterval, cfg.SweepConcurrency, logger)
	if err != nil {
		hub.Close()
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("build settlement sweeper: %w", err)
	}

	verifier := clubhouse.NewClient(
		&http.Client{Timeout: cfg.ClubhouseTimeout},
		cfg.ClubhouseBaseURL,
		cfg.ClubhouseIntrospectPath,
		cfg.ClubhouseAdminKey,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.ClubhouseCircuitEnabled,
			FailureThreshold: cfg.ClubhouseCircuitFailureCount,
			OpenTimeout:      cfg.ClubhouseCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ClubhouseCircuitHalfOpenMaxReq,
		},
		logger,
	)

	handler := httpapi.NewHandler(leagueSvc, playerSvc, draftSvc, sweeper, hub, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		cfg:     cfg,
		logger:  logger,
		server:  server,
		hub:     hub,
		db:      db,
		sweeper: sweeper,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then drains connections and
// releases the hub and database.
func (a *App) Run(ctx context.Context) error {
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()
	if a.cfg.SweepEnabled {
		go a.sweeper.Run(sweepCtx)
	} else {
		a.logger.Info("settlement sweeper disabled", "reason", "SWEEP_ENABLED=false")
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		a.close()
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	cancelSweep()
	a.close()
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.logger.Info("http server stopped")
	return nil
}

func (a *App) close() {
	a.hub.Close()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("close database", "error", err)
		}
	}
}

type repositories struct {
	leagues league.Repository
	teams   team.Repository
	players player.Repository
	drafts  draft.Repository
}

// buildRepositories picks the persistence backend. An empty DB_URL selects
// seeded in-memory repositories so the service can run without Postgres.
func buildRepositories(cfg config.Config, logger *slog.Logger) (repositories, *sqlx.DB, error) {
	if cfg.DBURL == "" {
		logger.Info("using in-memory repositories", "seed_league", memory.SeedLeagueID)
		teamRepo := memory.NewTeamRepository(nil)
		return repositories{
			leagues: memory.NewLeagueRepository(memory.SeedLeagues(), memory.SeedMembers()),
			teams:   teamRepo,
			players: memory.NewPlayerRepository(memory.SeedPlayers()),
			drafts:  memory.NewDraftRepository(teamRepo),
		}, nil, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return repositories{}, nil, err
	}
	logger.Info("connected to postgres", "db", dbNameFromURL(cfg.DBURL))

	return repositories{
		leagues: postgres.NewLeagueRepository(db),
		teams:   postgres.NewTeamRepository(db),
		players: postgres.NewPlayerRepository(db),
		drafts:  postgres.NewDraftRepository(db),
	}, db, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}
