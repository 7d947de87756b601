// Package serve runs the HTTP API and, optionally, the MCP server.
package serve

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/taskrank/adapter/api"
	"github.com/felixgeelhaar/taskrank/adapter/cli"
	mcpinternal "github.com/felixgeelhaar/taskrank/internal/mcp"
)

const shutdownTimeout = 10 * time.Second

var (
	addr    string
	withMCP bool
)

// Cmd starts the HTTP API.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serve the task prioritization HTTP API until interrupted.

Examples:
  taskrank serve
  taskrank serve --addr 0.0.0.0:8000 --with-mcp`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.AnalyzeTasksHandler == nil {
			return cli.ErrNotInitialized
		}
		return Run(cmd.Context(), app)
	},
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "listen address (default API_ADDR)")
	Cmd.Flags().BoolVar(&withMCP, "with-mcp", false, "also serve MCP tools on MCP_ADDR")
}

// NewServer builds the API server around the app's handlers.
func NewServer(app *cli.App, listenAddr string) *api.Server {
	serverCfg := api.DefaultServerConfig()
	if listenAddr != "" {
		serverCfg.Addr = listenAddr
	} else if app.Config != nil && app.Config.APIAddr != "" {
		serverCfg.Addr = app.Config.APIAddr
	}

	handler := api.NewTaskHandler(api.TaskHandlerConfig{
		Analyze:  app.AnalyzeTasksHandler,
		Suggest:  app.SuggestTasksHandler,
		List:     app.ListTasksHandler,
		Get:      app.GetTaskHandler,
		Create:   app.CreateTaskHandler,
		Delete:   app.DeleteTaskHandler,
		Import:   app.ImportTasksHandler,
		Activity: app.Activity,
		Logger:   app.Logger,
	})
	return api.NewServer(serverCfg, handler, app.Health, app.Logger, app.Metrics)
}

// Run serves until ctx is canceled or a server fails.
func Run(ctx context.Context, app *cli.App) error {
	srv := NewServer(app, addr)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if withMCP {
		g.Go(func() error {
			err := mcpinternal.Serve(ctx, app.Config, app, app.Logger)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	return g.Wait()
}
