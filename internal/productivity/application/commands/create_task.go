package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
)

// CreateTaskCommand contains the data needed to store a task.
// A zero Importance stores the default.
type CreateTaskCommand struct {
	ID             *int64
	Title          string
	DueDate        *time.Time
	EstimatedHours *float64
	Importance     int
	Dependencies   []int64
}

// CreateTaskResult contains the result of creating a task.
type CreateTaskResult struct {
	TaskID int64
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo task.Repository
	logger   *slog.Logger
	metrics  observability.Metrics
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(taskRepo task.Repository, logger *slog.Logger, metrics observability.Metrics) *CreateTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &CreateTaskHandler{
		taskRepo: taskRepo,
		logger:   logger,
		metrics:  metrics,
	}
}

// Handle executes the CreateTaskCommand.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*CreateTaskResult, error) {
	t := task.Task{
		ID:             cmd.ID,
		Title:          strings.TrimSpace(cmd.Title),
		DueDate:        cmd.DueDate,
		EstimatedHours: cmd.EstimatedHours,
		Importance:     cmd.Importance,
		Dependencies:   append([]int64(nil), cmd.Dependencies...),
	}
	if t.Importance == 0 {
		t.Importance = task.DefaultImportance
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	id, err := h.taskRepo.Save(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	h.metrics.Counter(observability.MetricTasksCreated, 1)
	h.logger.InfoContext(ctx, "task stored", "task_id", id, "title", t.Title)

	return &CreateTaskResult{TaskID: id}, nil
}
