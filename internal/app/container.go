package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/taskrank/internal/productivity/application/commands"
	"github.com/felixgeelhaar/taskrank/internal/productivity/application/queries"
	"github.com/felixgeelhaar/taskrank/internal/productivity/application/services"
	"github.com/felixgeelhaar/taskrank/internal/productivity/application/subscribers"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskrank/pkg/config"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics
	Health  *observability.HealthRegistry

	// Store
	Store *Store

	// Events
	EventPublisher eventbus.Publisher
	Activity       *subscribers.ActivitySubscriber

	// Engine
	Engine   *services.PriorityEngine
	Analyzer *services.Analyzer

	// Task Command Handlers
	CreateTaskHandler  *commands.CreateTaskHandler
	DeleteTaskHandler  *commands.DeleteTaskHandler
	ImportTasksHandler *commands.ImportTasksHandler

	// Task Query Handlers
	AnalyzeTasksHandler *queries.AnalyzeTasksHandler
	SuggestTasksHandler *queries.SuggestTasksHandler
	ListTasksHandler    *queries.ListTasksHandler
	GetTaskHandler      *queries.GetTaskHandler
}

// NewContainer opens the configured store and event bus and wires all handlers.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	metrics := observability.NewInMemoryMetrics()

	store, err := NewRepositoryFactory(cfg, logger, metrics).Open(ctx)
	if err != nil {
		return nil, err
	}

	c, err := newContainer(cfg, logger, metrics, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	if err := c.connectEvents(cfg); err != nil {
		_ = store.Close()
		return nil, err
	}
	c.wireHandlers()

	return c, nil
}

func newContainer(cfg *config.Config, logger *slog.Logger, metrics observability.Metrics, store *Store) (*Container, error) {
	weights, err := services.WeightsFromMap(cfg.Weights())
	if err != nil {
		return nil, fmt.Errorf("invalid strategy weights: %w", err)
	}

	engineCfg := services.DefaultPriorityEngineConfig()
	engineCfg.Weights = weights
	engineCfg.Logger = logger
	engine := services.NewPriorityEngine(engineCfg)

	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics,
		Health:   observability.NewHealthRegistry(),
		Store:    store,
		Activity: subscribers.NewActivitySubscriber(subscribers.DefaultActivityCapacity, logger),
		Engine:   engine,
		Analyzer: services.NewAnalyzer(engine, logger),
	}
	c.Health.Register("store", store.HealthChecker())
	return c, nil
}

// connectEvents uses RabbitMQ when configured. Development falls back to the
// in-process bus when the broker is unreachable; other environments fail.
func (c *Container) connectEvents(cfg *config.Config) error {
	if cfg.RabbitMQURL == "" {
		c.useInProcessEvents()
		return nil
	}

	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.EventsExchange, c.Logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		c.Logger.Warn("RabbitMQ not available, using in-process event bus", "error", err)
		c.useInProcessEvents()
		return nil
	}

	c.EventPublisher = publisher
	c.Health.Register("events", observability.BrokerHealthChecker(func(context.Context) error {
		if publisher.IsClosed() {
			return fmt.Errorf("connection closed")
		}
		return nil
	}))
	return nil
}

func (c *Container) useInProcessEvents() {
	bus := eventbus.NewInProcessEventBus(c.Logger)
	bus.RegisterConsumer(c.Activity)
	c.EventPublisher = bus
}

func (c *Container) wireHandlers() {
	opts := queries.Options{
		DefaultStrategy: services.ParseStrategy(c.Config.DefaultStrategy),
		SuggestLimit:    c.Config.SuggestLimit,
	}
	repo := c.Store.Tasks

	c.CreateTaskHandler = commands.NewCreateTaskHandler(repo, c.Logger, c.Metrics)
	c.DeleteTaskHandler = commands.NewDeleteTaskHandler(repo, c.Logger, c.Metrics)
	c.ImportTasksHandler = commands.NewImportTasksHandler(repo, c.Store.UnitOfWork, c.Logger, c.Metrics)

	c.AnalyzeTasksHandler = queries.NewAnalyzeTasksHandler(c.Analyzer, c.EventPublisher, c.Logger, c.Metrics, opts)
	c.SuggestTasksHandler = queries.NewSuggestTasksHandler(repo, c.Analyzer, c.EventPublisher, c.Logger, c.Metrics, opts)
	c.ListTasksHandler = queries.NewListTasksHandler(repo)
	c.GetTaskHandler = queries.NewGetTaskHandler(repo)
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			c.Logger.Warn("error closing task store", "error", err, "store", c.Store.Kind)
		} else {
			c.Logger.Info("task store closed", "store", c.Store.Kind)
		}
	}
}
