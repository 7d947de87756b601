package mcp

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskrank/adapter/cli"
	internalApp "github.com/felixgeelhaar/taskrank/internal/app"
	"github.com/felixgeelhaar/taskrank/internal/productivity/application/queries"
	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskrank/pkg/config"
)

func newTestApp(t *testing.T) *cli.App {
	t.Helper()
	cfg := &config.Config{
		AppEnv:           "test",
		TaskStore:        config.StoreSQLite,
		SQLitePath:       filepath.Join(t.TempDir(), "mcp.db"),
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

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestRegisterCLITools_ListTools(t *testing.T) {
	srv := mcp.NewServer(mcp.ServerInfo{
		Name:    "test",
		Version: "1.0.0",
		Capabilities: mcp.Capabilities{
			Tools: true,
		},
	})

	require.NoError(t, RegisterCLITools(srv, ToolDependencies{App: &cli.App{}}))

	tc := testutil.NewTestClient(t, srv)
	defer tc.Close()

	tools, err := tc.ListTools()
	require.NoError(t, err)

	names := make(map[any]bool, len(tools))
	for _, tool := range tools {
		names[tool["name"]] = true
	}
	for _, want := range []string{
		"tasks.analyze", "tasks.suggest", "strategies.list", "activity.recent", "health.check",
		"task.create", "task.list", "task.get", "task.delete", "task.import",
	} {
		assert.True(t, names[want], "%s tool should be registered", want)
	}
}

func TestRegisterCLITools_RequiresApp(t *testing.T) {
	srv := mcp.NewServer(mcp.ServerInfo{Name: "test", Version: "1.0.0"})

	assert.Error(t, RegisterCLITools(srv, ToolDependencies{}))
	assert.Error(t, RegisterCLITools(nil, ToolDependencies{App: &cli.App{}}))
}

func TestPrioritizationTools(t *testing.T) {
	app := newTestApp(t)
	tools := prioritizationTools{app: app}
	ctx := context.Background()

	result, err := tools.analyze(ctx, analyzeInput{
		Strategy: "deadline_driven",
		Tasks: []queries.TaskInput{
			{ID: ptr(int64(1)), Title: "Later", DueDate: strPtr("2099-01-01"), Importance: intPtr(5)},
			{ID: ptr(int64(2)), Title: "Overdue", DueDate: strPtr("2000-01-01"), Importance: intPtr(5)},
		},
	})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Overdue", result[0].Title)

	_, err = tools.analyze(ctx, analyzeInput{Tasks: []queries.TaskInput{{Title: ""}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0.title")

	recent, err := tools.activity(ctx, activityInput{})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "deadline_driven", recent[0].Strategy)

	strategies, err := tools.strategies(ctx, struct{}{})
	require.NoError(t, err)
	assert.Len(t, strategies, 4)

	health, err := tools.health(ctx, struct{}{})
	require.NoError(t, err)
	assert.Contains(t, health.Checks, "store")
}

func TestTaskTools(t *testing.T) {
	app := newTestApp(t)
	tools := taskTools{app: app}
	ctx := context.Background()

	created, err := tools.create(ctx, queries.TaskInput{Title: "Write tests", DueDate: strPtr("2025-06-01")})
	require.NoError(t, err)
	require.NotNil(t, created.ID)
	assert.Equal(t, task.DefaultImportance, created.Importance)

	_, err = tools.create(ctx, queries.TaskInput{Title: "Bad date", DueDate: strPtr("June 1st")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "due_date")

	imported, err := tools.importTasks(ctx, taskImportInput{
		Tasks: []queries.TaskInput{{Title: "A", Importance: intPtr(5)}, {Title: "B", Importance: intPtr(5)}},
	})
	require.NoError(t, err)
	assert.Len(t, imported.TaskIDs, 2)

	listed, err := tools.list(ctx, taskListInput{})
	require.NoError(t, err)
	assert.Len(t, listed, 3)

	got, err := tools.get(ctx, taskIDInput{TaskID: *created.ID})
	require.NoError(t, err)
	assert.Equal(t, "Write tests", got.Title)

	_, err = tools.remove(ctx, taskIDInput{TaskID: *created.ID})
	require.NoError(t, err)

	_, err = tools.remove(ctx, taskIDInput{TaskID: *created.ID})
	assert.ErrorIs(t, err, task.ErrNotFound)

	suggestTools := prioritizationTools{app: app}
	suggestion, err := suggestTools.suggest(ctx, suggestInput{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, suggestion.Tasks, 1)
}

func TestTools_WithoutStore(t *testing.T) {
	tools := taskTools{app: &cli.App{}}

	_, err := tools.list(context.Background(), taskListInput{})
	assert.ErrorIs(t, err, cli.ErrNotInitialized)
}

func ptr[T any](v T) *T { return &v }
