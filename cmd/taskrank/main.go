package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/taskrank/adapter/cli"
	"github.com/felixgeelhaar/taskrank/adapter/cli/events"
	"github.com/felixgeelhaar/taskrank/adapter/cli/mcp"
	"github.com/felixgeelhaar/taskrank/adapter/cli/serve"
	"github.com/felixgeelhaar/taskrank/adapter/cli/task"
	"github.com/felixgeelhaar/taskrank/internal/app"
	"github.com/felixgeelhaar/taskrank/pkg/config"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
)

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		observability.LoggerFromEnv().Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger, level := app.NewLogger(cfg, cli.Version)
	cli.SetLogger(logger, level)

	// Open the task store; development keeps going without one so that
	// commands like `strategies` and `version` still work.
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
	} else {
		cli.SetApp(cli.NewApp(container))
	}

	// Register commands
	cli.AddCommand(task.Cmd)
	cli.AddCommand(serve.Cmd)
	cli.AddCommand(events.Cmd)
	cli.AddCommand(mcp.Cmd)

	// Execute CLI
	code := 0
	if err := cli.Execute(ctx); err != nil {
		code = 1
	}
	cancel()
	if container != nil {
		container.Close()
	}
	os.Exit(code)
}
