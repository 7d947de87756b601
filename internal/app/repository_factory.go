package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskrank/internal/productivity/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/taskrank/internal/shared/application"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/taskrank/pkg/config"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
)

// Store bundles the task repository of the configured backend with its transaction support.
type Store struct {
	Kind       string
	Tasks      task.Repository
	UnitOfWork sharedApplication.UnitOfWork
	Breaker    *persistence.BreakerTaskRepository

	ping  func(ctx context.Context) error
	close func() error
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend connection.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// HealthChecker reports the store as a health check.
func (s *Store) HealthChecker() observability.HealthChecker {
	return observability.StoreHealthChecker(s.Kind, s.Ping)
}

// RepositoryFactory opens the task store selected by configuration.
type RepositoryFactory struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(cfg *config.Config, logger *slog.Logger, metrics observability.Metrics) *RepositoryFactory {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &RepositoryFactory{cfg: cfg, logger: logger, metrics: metrics}
}

// Open connects to the store, applies migrations for SQL backends and
// wraps the repository in a circuit breaker when enabled.
func (f *RepositoryFactory) Open(ctx context.Context) (*Store, error) {
	var (
		store *Store
		err   error
	)

	switch f.cfg.TaskStore {
	case config.StoreSQLite:
		store, err = f.openSQL(ctx, database.DriverSQLite, f.cfg.SQLitePath)
	case config.StorePostgres:
		store, err = f.openSQL(ctx, database.DriverPostgres, f.cfg.DatabaseURL)
	case config.StoreRedis:
		store, err = f.openRedis(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStore, f.cfg.TaskStore)
	}
	if err != nil {
		return nil, err
	}

	if f.cfg.StoreBreakerEnabled {
		breakerCfg := persistence.DefaultBreakerConfig()
		if f.cfg.StoreBreakerFailures > 0 {
			breakerCfg.FailureThreshold = uint32(f.cfg.StoreBreakerFailures)
		}
		if f.cfg.StoreBreakerTimeout > 0 {
			breakerCfg.Timeout = f.cfg.StoreBreakerTimeout
		}
		store.Breaker = persistence.NewBreakerTaskRepository(store.Tasks, breakerCfg, f.logger, f.metrics)
		store.Tasks = store.Breaker
	}

	f.logger.Info("task store opened",
		"store", store.Kind,
		"breaker", f.cfg.StoreBreakerEnabled,
	)
	return store, nil
}

func (f *RepositoryFactory) openSQL(ctx context.Context, driver database.Driver, dsn string) (*Store, error) {
	conn, err := database.Open(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	f.logger.Info("running migrations", "driver", conn.Driver())
	if err := migrations.Run(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store := &Store{
		Kind:       conn.Driver().String(),
		UnitOfWork: database.NewUnitOfWork(conn),
		ping:       conn.Ping,
		close:      conn.Close,
	}
	switch conn.Driver() {
	case database.DriverPostgres:
		store.Tasks = persistence.NewPostgresTaskRepository(conn)
	default:
		store.Tasks = persistence.NewSQLiteTaskRepository(conn)
	}
	return store, nil
}

func (f *RepositoryFactory) openRedis(ctx context.Context) (*Store, error) {
	opt, err := redis.ParseURL(f.cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{
		Kind:       config.StoreRedis,
		Tasks:      persistence.NewRedisTaskRepository(client, f.cfg.RedisKeyPrefix),
		UnitOfWork: persistence.NewRedisUnitOfWork(client),
		ping:       func(ctx context.Context) error { return client.Ping(ctx).Err() },
		close:      client.Close,
	}, nil
}
