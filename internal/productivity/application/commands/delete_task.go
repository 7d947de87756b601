package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
)

// DeleteTaskCommand contains the data needed to delete a task.
type DeleteTaskCommand struct {
	TaskID int64
}

// DeleteTaskHandler handles the DeleteTaskCommand.
type DeleteTaskHandler struct {
	taskRepo task.Repository
	logger   *slog.Logger
	metrics  observability.Metrics
}

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(taskRepo task.Repository, logger *slog.Logger, metrics observability.Metrics) *DeleteTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &DeleteTaskHandler{
		taskRepo: taskRepo,
		logger:   logger,
		metrics:  metrics,
	}
}

// Handle executes the DeleteTaskCommand. Deleting an unknown task yields task.ErrNotFound.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) error {
	if err := h.taskRepo.Delete(ctx, cmd.TaskID); err != nil {
		return err
	}

	h.metrics.Counter(observability.MetricTasksDeleted, 1)
	h.logger.InfoContext(ctx, "task deleted", "task_id", cmd.TaskID)
	return nil
}
