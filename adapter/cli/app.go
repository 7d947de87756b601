package cli

import (
	"errors"
	"log/slog"

	internalApp "github.com/felixgeelhaar/taskrank/internal/app"
	"github.com/felixgeelhaar/taskrank/internal/productivity/application/commands"
	"github.com/felixgeelhaar/taskrank/internal/productivity/application/queries"
	"github.com/felixgeelhaar/taskrank/internal/productivity/application/subscribers"
	"github.com/felixgeelhaar/taskrank/pkg/config"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
)

// ErrNotInitialized is returned by commands that need a task store when none is open.
var ErrNotInitialized = errors.New("application not initialized - task store connection required")

// App holds the CLI application dependencies.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics
	Health  *observability.HealthRegistry

	// Task Command Handlers
	CreateTaskHandler  *commands.CreateTaskHandler
	DeleteTaskHandler  *commands.DeleteTaskHandler
	ImportTasksHandler *commands.ImportTasksHandler

	// Task Query Handlers
	AnalyzeTasksHandler *queries.AnalyzeTasksHandler
	SuggestTasksHandler *queries.SuggestTasksHandler
	ListTasksHandler    *queries.ListTasksHandler
	GetTaskHandler      *queries.GetTaskHandler

	// Recent prioritization events
	Activity *subscribers.ActivitySubscriber
}

// NewApp creates a CLI application backed by the container's handlers.
func NewApp(c *internalApp.Container) *App {
	return &App{
		Config:              c.Config,
		Logger:              c.Logger,
		Metrics:             c.Metrics,
		Health:              c.Health,
		CreateTaskHandler:   c.CreateTaskHandler,
		DeleteTaskHandler:   c.DeleteTaskHandler,
		ImportTasksHandler:  c.ImportTasksHandler,
		AnalyzeTasksHandler: c.AnalyzeTasksHandler,
		SuggestTasksHandler: c.SuggestTasksHandler,
		ListTasksHandler:    c.ListTasksHandler,
		GetTaskHandler:      c.GetTaskHandler,
		Activity:            c.Activity,
	}
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
