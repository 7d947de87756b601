package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalApp "github.com/felixgeelhaar/taskrank/internal/app"
	"github.com/felixgeelhaar/taskrank/internal/productivity/application/commands"
	"github.com/felixgeelhaar/taskrank/internal/productivity/application/queries"
	"github.com/felixgeelhaar/taskrank/pkg/config"
)

func setupTestApp(t *testing.T) *App {
	t.Helper()

	cfg := &config.Config{
		AppEnv:           "test",
		TaskStore:        config.StoreSQLite,
		SQLitePath:       filepath.Join(t.TempDir(), "test.db"),
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

	a := NewApp(container)
	SetApp(a)
	t.Cleanup(func() { SetApp(nil) })
	return a
}

func runCmd(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetContext(context.Background())
	err := cmd.RunE(cmd, args)
	return out.String(), err
}

const batch = `[
	{"id": 1, "title": "Quick fix", "estimated_hours": 0.5, "importance": 4},
	{"id": 2, "title": "Big migration", "estimated_hours": 12, "importance": 9, "dependencies": [1]}
]`

func TestAnalyzeCmd_JSON(t *testing.T) {
	setupTestApp(t)
	analyzeFile, analyzeFormat, analyzeStrategy, analyzeJSON = "-", "", "fastest_wins", true

	out, err := runCmd(t, analyzeCmd, batch)
	require.NoError(t, err)

	var result []queries.ScoredTaskDTO
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result, 2)
	assert.Equal(t, "Quick fix", result[0].Title)
	assert.Contains(t, result[0].Explanation, "Strategy: fastest_wins")
	assert.Contains(t, result[0].Explanation, "Blocks other tasks")
}

func TestAnalyzeCmd_Text(t *testing.T) {
	setupTestApp(t)
	analyzeFile, analyzeFormat, analyzeStrategy, analyzeJSON = "-", "", "", false

	out, err := runCmd(t, analyzeCmd, batch)
	require.NoError(t, err)
	assert.Contains(t, out, "1. ")
	assert.Contains(t, out, "Big migration")
	assert.Contains(t, out, "Strategy: smart_balance")
}

func TestAnalyzeCmd_Errors(t *testing.T) {
	setupTestApp(t)
	analyzeFile, analyzeFormat, analyzeStrategy, analyzeJSON = "-", "", "", false

	_, err := runCmd(t, analyzeCmd, `{"title": "not a list"}`)
	assert.ErrorIs(t, err, ErrExpectedArray)

	_, err = runCmd(t, analyzeCmd, `[{"title": "A", "importance": 0}]`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0.importance")
}

func TestSuggestCmd(t *testing.T) {
	a := setupTestApp(t)
	suggestStrategy, suggestLimit, suggestJSON = "", 0, false

	out, err := runCmd(t, suggestCmd, "")
	require.NoError(t, err)
	assert.Contains(t, out, queries.EmptyStoreMessage)

	for _, title := range []string{"One", "Two", "Three", "Four"} {
		_, err := a.CreateTaskHandler.Handle(context.Background(), commands.CreateTaskCommand{Title: title})
		require.NoError(t, err)
	}

	suggestStrategy, suggestLimit, suggestJSON = "high_impact", 2, true
	out, err = runCmd(t, suggestCmd, "")
	require.NoError(t, err)

	var result queries.SuggestTasksResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Tasks, 2)
	assert.Equal(t, "high_impact", result.Strategy)
}

func TestStrategiesCmd(t *testing.T) {
	strategiesJSON = false

	out, err := runCmd(t, strategiesCmd, "")
	require.NoError(t, err)
	for _, name := range []string{"fastest_wins", "high_impact", "deadline_driven", "smart_balance (default)"} {
		assert.Contains(t, out, name)
	}
}

func TestCommands_RequireApp(t *testing.T) {
	SetApp(nil)

	_, err := runCmd(t, suggestCmd, "")
	assert.ErrorIs(t, err, ErrNotInitialized)
}
