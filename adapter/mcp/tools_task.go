package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/taskrank/adapter/cli"
	"github.com/felixgeelhaar/taskrank/internal/productivity/application/commands"
	"github.com/felixgeelhaar/taskrank/internal/productivity/application/queries"
	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
)

type taskListInput struct {
	Limit int `json:"limit,omitempty"`
}

type taskIDInput struct {
	TaskID int64 `json:"task_id" jsonschema:"required"`
}

type taskImportInput struct {
	Tasks   []queries.TaskInput `json:"tasks" jsonschema:"required"`
	Replace bool                `json:"replace,omitempty"`
}

// taskTools holds the handlers behind the store management tools.
type taskTools struct {
	app *cli.App
}

func registerTaskTools(srv *mcp.Server, deps ToolDependencies) error {
	t := taskTools{app: deps.App}

	srv.Tool("task.create").
		Description("Store a new task. due_date uses YYYY-MM-DD; importance is 1-10 (default 5).").
		Handler(t.create)

	srv.Tool("task.list").
		Description("List stored tasks in id order").
		Handler(t.list)

	srv.Tool("task.get").
		Description("Get a stored task by id").
		Handler(t.get)

	srv.Tool("task.delete").
		Description("Delete a stored task by id").
		Handler(t.remove)

	srv.Tool("task.import").
		Description("Store a batch of tasks in one transaction, optionally replacing every stored task").
		Handler(t.importTasks)

	return nil
}

func (t taskTools) create(ctx context.Context, input queries.TaskInput) (*queries.TaskDTO, error) {
	if t.app.CreateTaskHandler == nil || t.app.GetTaskHandler == nil {
		return nil, cli.ErrNotInitialized
	}

	if input.Importance == nil {
		importance := task.DefaultImportance
		input.Importance = &importance
	}
	tasks, err := queries.ToTasks([]queries.TaskInput{input})
	if err != nil {
		return nil, toolError(err)
	}
	record := tasks[0]

	result, err := t.app.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{
		ID:             record.ID,
		Title:          record.Title,
		DueDate:        record.DueDate,
		EstimatedHours: record.EstimatedHours,
		Importance:     record.Importance,
		Dependencies:   record.Dependencies,
	})
	if err != nil {
		return nil, toolError(err)
	}
	return t.app.GetTaskHandler.Handle(ctx, queries.GetTaskQuery{TaskID: result.TaskID})
}

func (t taskTools) list(ctx context.Context, input taskListInput) ([]queries.TaskDTO, error) {
	if t.app.ListTasksHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	return t.app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{Limit: input.Limit})
}

func (t taskTools) get(ctx context.Context, input taskIDInput) (*queries.TaskDTO, error) {
	if t.app.GetTaskHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	return t.app.GetTaskHandler.Handle(ctx, queries.GetTaskQuery{TaskID: input.TaskID})
}

func (t taskTools) remove(ctx context.Context, input taskIDInput) (map[string]any, error) {
	if t.app.DeleteTaskHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	if err := t.app.DeleteTaskHandler.Handle(ctx, commands.DeleteTaskCommand{TaskID: input.TaskID}); err != nil {
		return nil, fmt.Errorf("failed to delete task %d: %w", input.TaskID, err)
	}
	return map[string]any{"task_id": input.TaskID, "deleted": true}, nil
}

func (t taskTools) importTasks(ctx context.Context, input taskImportInput) (*commands.ImportTasksResult, error) {
	if t.app.ImportTasksHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	tasks, err := queries.ToTasks(input.Tasks)
	if err != nil {
		return nil, toolError(err)
	}
	return t.app.ImportTasksHandler.Handle(ctx, commands.ImportTasksCommand{
		Tasks:   tasks,
		Replace: input.Replace,
	})
}
