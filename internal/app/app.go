package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/bet-pool/internal/config"
	"github.com/riskibarqy/bet-pool/internal/domain/bet"
	"github.com/riskibarqy/bet-pool/internal/domain/leaderboard"
	"github.com/riskibarqy/bet-pool/internal/domain/match"
	"github.com/riskibarqy/bet-pool/internal/domain/scoring"
	"github.com/riskibarqy/bet-pool/internal/domain/user"
	"github.com/riskibarqy/bet-pool/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/bet-pool/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/bet-pool/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/bet-pool/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/bet-pool/internal/interfaces/httpapi"
	"github.com/riskibarqy/bet-pool/internal/observability"
	basecache "github.com/riskibarqy/bet-pool/internal/platform/cache"
	"github.com/riskibarqy/bet-pool/internal/platform/logging"
	"github.com/riskibarqy/bet-pool/internal/platform/resilience"
	"github.com/riskibarqy/bet-pool/internal/usecase"
)

// App is the assembled HTTP service and the resources it owns.
type App struct {
	Server  *http.Server
	closers []func() error
}

type repositories struct {
	matches     match.Repository
	bets        bet.Repository
	users       user.Repository
	leaderboard leaderboard.Reader
	scoring     scoring.Transactor
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{}
	repos, err := a.buildRepositories(ctx, cfg, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	var (
		metrics        *observability.Metrics
		recorder       usecase.ScoringRecorder
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
		recorder = metrics
		metricsHandler = metrics.Handler()
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.matches = cache.NewMatchRepository(repos.matches, store)
		repos.scoring = cache.NewScoringTransactor(repos.scoring, store)
		if metrics != nil {
			metrics.RegisterCacheStats("match", store)
		}
	}

	matchSvc := usecase.NewMatchService(repos.matches, repos.scoring, recorder, logger)
	betSvc := usecase.NewBetService(repos.matches, repos.bets, repos.users)
	leaderboardSvc := usecase.NewLeaderboardService(repos.leaderboard)
	userSvc := usecase.NewUserService(repos.users)

	handler := httpapi.NewHandler(matchSvc, betSvc, leaderboardSvc, userSvc, logger)
	router := httpapi.NewRouter(handler, newTokenVerifier(cfg, logger), userSvc, logger, httpapi.RouterOptions{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MetricsHandler:     metricsHandler,
	})

	a.Server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
	return a, nil
}

func (a *App) buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		seed := memory.Seed{}
		if cfg.SeedDemoData {
			seed = memory.DemoSeed(time.Now())
		}
		store := memory.NewStore(seed)
		logger.InfoContext(ctx, "using in-memory storage", "seed_demo_data", cfg.SeedDemoData)

		return repositories{
			matches:     memory.NewMatchRepository(store),
			bets:        memory.NewBetRepository(store),
			users:       memory.NewUserRepository(store),
			leaderboard: memory.NewLeaderboardRepository(store),
			scoring:     memory.NewScoringRepository(store),
		}, nil
	case config.StoragePostgres:
		db, err := openPostgres(ctx, cfg, logger)
		if err != nil {
			return repositories{}, err
		}
		a.closers = append(a.closers, db.Close)

		if cfg.SeedDemoData {
			if err := postgres.BootstrapSeed(ctx, db, memory.DemoSeed(time.Now())); err != nil {
				return repositories{}, fmt.Errorf("bootstrap demo seed: %w", err)
			}
		}

		return repositories{
			matches:     postgres.NewMatchRepository(db),
			bets:        postgres.NewBetRepository(db),
			users:       postgres.NewUserRepository(db),
			leaderboard: postgres.NewLeaderboardRepository(db),
			scoring:     postgres.NewScoringRepository(db),
		}, nil
	default:
		return repositories{}, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

func newTokenVerifier(cfg config.Config, logger *logging.Logger) httpapi.TokenVerifier {
	if len(cfg.StaticAuthTokens) > 0 {
		logger.Warn("using static auth tokens", "count", len(cfg.StaticAuthTokens))
		return anubis.NewStaticVerifier(cfg.StaticAuthTokens)
	}

	return anubis.NewClient(
		&http.Client{Timeout: cfg.AnubisTimeout},
		cfg.AnubisBaseURL,
		cfg.AnubisIntrospectURL,
		cfg.AnubisAdminKey,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.AnubisCircuitEnabled,
			FailureThreshold: cfg.AnubisCircuitFailureCount,
			OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
		},
		logger,
	)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
