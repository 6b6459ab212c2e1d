package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/match-forecast/external/thesportsdb"
	"github.com/riskibarqy/match-forecast/internal/config"
	"github.com/riskibarqy/match-forecast/internal/domain/forecast"
	"github.com/riskibarqy/match-forecast/internal/domain/match"
	"github.com/riskibarqy/match-forecast/internal/domain/prediction"
	"github.com/riskibarqy/match-forecast/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/match-forecast/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-forecast/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/match-forecast/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/match-forecast/internal/platform/id"
	"github.com/riskibarqy/match-forecast/internal/platform/lock"
	"github.com/riskibarqy/match-forecast/internal/platform/logging"
	"github.com/riskibarqy/match-forecast/internal/platform/resilience"
	"github.com/riskibarqy/match-forecast/internal/usecase"
)

const redisLockPrefix = "match-forecast:lock:"

// Server is the assembled API. Close releases the database and redis handles after
// the HTTP server has been shut down.
type Server struct {
	HTTP    *http.Server
	closers []func() error
}

func (s *Server) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type storage struct {
	matches     match.Repository
	predictions prediction.Repository
	locker      lock.Locker
}

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	srv := &Server{}
	store, err := buildStorage(ctx, cfg, logger, srv)
	if err != nil {
		_ = srv.Close()
		return nil, err
	}

	source := thesportsdb.NewClient(thesportsdb.ClientConfig{
		BaseURL:     cfg.SportsDBBaseURL,
		APIKey:      cfg.SportsDBAPIKey,
		LeagueID:    cfg.SportsDBLeagueID,
		Seasons:     cfg.SportsDBSeasons,
		SeasonPause: cfg.SportsDBSeasonPause,
		Timeout:     cfg.SportsDBTimeout,
		MaxRetries:  cfg.SportsDBMaxRetries,
		Logger:      logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SportsDBCircuitEnabled,
			FailureThreshold: cfg.SportsDBCircuitFailureCount,
			OpenTimeout:      cfg.SportsDBCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SportsDBCircuitHalfOpenMaxReq,
		},
	})

	historySync := usecase.NewHistorySyncService(source, store.matches, store.locker, usecase.HistorySyncConfig{
		MaxRequests:       cfg.SyncMaxRequests,
		SufficientHistory: cfg.SyncSufficientHistory,
		TopTeams:          cfg.SyncTopTeams,
		HeadToHeadPairs:   cfg.SyncHeadToHeadPairs,
		CallInterval:      cfg.SyncCallInterval,
		RunTimeout:        cfg.SyncRunTimeout,
		LockTTL:           cfg.SyncLockTTL,
		RefreshTimeout:    cfg.PredictionRefreshTimeout,
	}, logger)

	model := forecast.NewModel(cfg.Policy.Weights)
	predictionSvc := usecase.NewPredictionService(
		store.matches,
		store.predictions,
		model,
		historySync,
		idgen.NewUUIDGenerator(),
		usecase.PredictionConfig{WarmWorkers: cfg.PredictionWarmWorkers},
		logger,
	)
	fixtureSync := usecase.NewFixtureSyncService(source, store.matches, predictionSvc, logger)
	matchSvc := usecase.NewMatchService(store.matches)

	logger.Info("forecast model ready", "model_version", model.Version())

	handler := httpapi.NewHandler(matchSvc, predictionSvc, historySync, fixtureSync, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	srv.HTTP = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return srv, nil
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logging.Logger, srv *Server) (storage, error) {
	var out storage

	var db *sqlx.DB
	if cfg.DBURL == "" {
		logger.Warn("DB_URL is empty, using in-memory storage")
		out.matches = memory.NewMatchRepository(nil)
		out.predictions = memory.NewPredictionRepository()
	} else {
		opened, err := openDB(ctx, cfg)
		if err != nil {
			return out, err
		}
		db = opened
		srv.closers = append(srv.closers, db.Close)
		out.matches = postgres.NewMatchRepository(db)
		out.predictions = postgres.NewPredictionRepository(db)
	}

	if cfg.CacheEnabled {
		out.predictions = cache.NewPredictionRepository(out.predictions, cfg.CacheTTL)
	}

	switch {
	case cfg.RedisURL != "":
		client, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return out, err
		}
		srv.closers = append(srv.closers, client.Close)
		out.locker = lock.NewRedisLocker(client, redisLockPrefix)
		logger.Info("history sync lock backend selected", "backend", "redis")
	case db != nil:
		out.locker = lock.NewPostgresLocker(db)
		logger.Info("history sync lock backend selected", "backend", "postgres")
	default:
		out.locker = lock.NewLocalLocker()
		logger.Info("history sync lock backend selected", "backend", "local")
	}

	return out, nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	otelsql.ReportDBStatsMetrics(db.DB)

	return db, nil
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
