package serve

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskrank/adapter/cli"
	internalApp "github.com/felixgeelhaar/taskrank/internal/app"
	"github.com/felixgeelhaar/taskrank/pkg/config"
)

func newTestApp(t *testing.T) *cli.App {
	t.Helper()
	cfg := &config.Config{
		AppEnv:           "test",
		TaskStore:        config.StoreSQLite,
		SQLitePath:       filepath.Join(t.TempDir(), "serve.db"),
		APIAddr:          "127.0.0.1:0",
		DefaultStrategy:  "smart_balance",
		SuggestLimit:     3,
		WeightUrgency:    0.4,
		WeightImportance: 0.3,
		WeightEffort:     0.2,
		WeightDependency: 0.1,
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := internalApp.NewContainer(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(container.Close)
	return cli.NewApp(container)
}

func TestNewServer_RoutesThroughStore(t *testing.T) {
	app := newTestApp(t)
	handler := NewServer(app, "").Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/tasks/", strings.NewReader(`{"title": "Served"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/tasks/suggest/", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Served")

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store"`)
}

func TestRun_StopsOnCancel(t *testing.T) {
	app := newTestApp(t)
	addr, withMCP = "127.0.0.1:0", false

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, app) }()

	cancel()
	assert.NoError(t, <-done)
}
