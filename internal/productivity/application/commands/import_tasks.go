package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/taskrank/internal/shared/application"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
)

// ImportTasksCommand stores a whole batch at once.
// With Replace set, every stored task is removed first.
type ImportTasksCommand struct {
	Tasks   []task.Task
	Replace bool
}

// ImportTasksResult lists the stored ids in input order.
type ImportTasksResult struct {
	TaskIDs []int64 `json:"ids"`
	Removed int     `json:"removed"`
}

// ImportTasksHandler handles the ImportTasksCommand.
type ImportTasksHandler struct {
	taskRepo task.Repository
	uow      sharedApplication.UnitOfWork
	logger   *slog.Logger
	metrics  observability.Metrics
}

// NewImportTasksHandler creates a new ImportTasksHandler.
func NewImportTasksHandler(taskRepo task.Repository, uow sharedApplication.UnitOfWork, logger *slog.Logger, metrics observability.Metrics) *ImportTasksHandler {
	if uow == nil {
		uow = sharedApplication.NoopUnitOfWork{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &ImportTasksHandler{
		taskRepo: taskRepo,
		uow:      uow,
		logger:   logger,
		metrics:  metrics,
	}
}

// Handle executes the ImportTasksCommand. Nothing is written unless the whole batch is valid.
func (h *ImportTasksHandler) Handle(ctx context.Context, cmd ImportTasksCommand) (*ImportTasksResult, error) {
	if err := task.ValidateBatch(cmd.Tasks); err != nil {
		return nil, err
	}

	result := &ImportTasksResult{TaskIDs: make([]int64, 0, len(cmd.Tasks))}
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if cmd.Replace {
			existing, err := h.taskRepo.FindAll(txCtx)
			if err != nil {
				return fmt.Errorf("failed to load tasks: %w", err)
			}
			for _, t := range existing {
				if err := h.taskRepo.Delete(txCtx, *t.ID); err != nil {
					return fmt.Errorf("failed to remove task %d: %w", *t.ID, err)
				}
			}
			result.Removed = len(existing)
		}

		for _, t := range cmd.Tasks {
			id, err := h.taskRepo.Save(txCtx, t)
			if err != nil {
				return fmt.Errorf("failed to save task %q: %w", t.Title, err)
			}
			result.TaskIDs = append(result.TaskIDs, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.metrics.Counter(observability.MetricTasksCreated, int64(len(result.TaskIDs)))
	if result.Removed > 0 {
		h.metrics.Counter(observability.MetricTasksDeleted, int64(result.Removed))
	}
	h.logger.InfoContext(ctx, "tasks imported",
		"count", len(result.TaskIDs),
		"removed", result.Removed,
	)

	return result, nil
}
