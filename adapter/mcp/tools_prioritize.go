package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/taskrank/adapter/cli"
	"github.com/felixgeelhaar/taskrank/internal/productivity/application/queries"
	"github.com/felixgeelhaar/taskrank/internal/productivity/application/services"
	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
)

type analyzeInput struct {
	Tasks    []queries.TaskInput `json:"tasks" jsonschema:"required"`
	Strategy string              `json:"strategy,omitempty"`
}

type suggestInput struct {
	Strategy string `json:"strategy,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type activityInput struct {
	Limit int `json:"limit,omitempty"`
}

// prioritizationTools holds the handlers behind the ranking tools.
type prioritizationTools struct {
	app *cli.App
}

func registerPrioritizationTools(srv *mcp.Server, deps ToolDependencies) error {
	t := prioritizationTools{app: deps.App}

	srv.Tool("tasks.analyze").
		Description("Score and rank a batch of tasks without storing them. Strategies: fastest_wins, high_impact, deadline_driven, smart_balance (default).").
		Handler(t.analyze)

	srv.Tool("tasks.suggest").
		Description("Rank every stored task and return the top suggestions for today").
		Handler(t.suggest)

	srv.Tool("strategies.list").
		Description("List the scoring strategies and their formulas").
		Handler(t.strategies)

	srv.Tool("activity.recent").
		Description("List recent prioritization runs, newest first").
		Handler(t.activity)

	srv.Tool("health.check").
		Description("Report the health of the task store and event bus").
		Handler(t.health)

	return nil
}

func (t prioritizationTools) analyze(ctx context.Context, input analyzeInput) ([]queries.ScoredTaskDTO, error) {
	if t.app.AnalyzeTasksHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	result, err := t.app.AnalyzeTasksHandler.Handle(ctx, queries.AnalyzeTasksQuery{
		Tasks:    input.Tasks,
		Strategy: input.Strategy,
	})
	return result, toolError(err)
}

func (t prioritizationTools) suggest(ctx context.Context, input suggestInput) (*queries.SuggestTasksResult, error) {
	if t.app.SuggestTasksHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	return t.app.SuggestTasksHandler.Handle(ctx, queries.SuggestTasksQuery{
		Strategy: input.Strategy,
		Limit:    input.Limit,
	})
}

func (t prioritizationTools) strategies(ctx context.Context, input struct{}) ([]services.StrategyInfo, error) {
	return services.Strategies(), nil
}

func (t prioritizationTools) activity(ctx context.Context, input activityInput) ([]task.TasksPrioritized, error) {
	if t.app.Activity == nil {
		return []task.TasksPrioritized{}, nil
	}
	return t.app.Activity.Recent(input.Limit), nil
}

func (t prioritizationTools) health(ctx context.Context, input struct{}) (observability.OverallHealth, error) {
	if t.app.Health == nil {
		return observability.OverallHealth{}, errors.New("health checks not configured")
	}
	return t.app.Health.Report(ctx), nil
}

// toolError flattens validation failures into one readable message.
func toolError(err error) error {
	if err == nil {
		return nil
	}
	var verr *task.ValidationError
	if errors.As(err, &verr) {
		return errors.New(cli.FormatError(err))
	}
	return err
}
