package queries

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/taskrank/internal/productivity/application/services"
	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
)

// EmptyStoreMessage is returned by Suggest when there is nothing to rank.
const EmptyStoreMessage = "No tasks found in the database. Add some tasks first."

// SuggestTasksQuery asks for the best tasks from the store.
type SuggestTasksQuery struct {
	Strategy string
	Limit    int
}

// SuggestTasksResult is either a suggestion or, for an empty store, a message.
type SuggestTasksResult struct {
	Date     string          `json:"date,omitempty"`
	Strategy string          `json:"strategy,omitempty"`
	Tasks    []ScoredTaskDTO `json:"tasks,omitempty"`
	Message  string          `json:"message,omitempty"`
}

// Empty reports whether the store had no tasks.
func (r *SuggestTasksResult) Empty() bool {
	return r.Message != "" && len(r.Tasks) == 0
}

// SuggestTasksHandler handles the SuggestTasksQuery.
type SuggestTasksHandler struct {
	taskRepo task.Repository
	analyzer *services.Analyzer
	notifier prioritizedNotifier
	logger   *slog.Logger
	metrics  observability.Metrics
	opts     Options
}

// NewSuggestTasksHandler creates a new SuggestTasksHandler.
func NewSuggestTasksHandler(
	taskRepo task.Repository,
	analyzer *services.Analyzer,
	publisher eventbus.Publisher,
	logger *slog.Logger,
	metrics observability.Metrics,
	opts Options,
) *SuggestTasksHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &SuggestTasksHandler{
		taskRepo: taskRepo,
		analyzer: analyzer,
		notifier: prioritizedNotifier{publisher: publisher, logger: logger, metrics: metrics},
		logger:   logger,
		metrics:  metrics,
		opts:     opts,
	}
}

// Handle ranks every stored task and returns the top of the list.
func (h *SuggestTasksHandler) Handle(ctx context.Context, query SuggestTasksQuery) (*SuggestTasksResult, error) {
	return observability.TimeOperationResult(ctx, h.logger, h.metrics, "tasks.suggest", func() (*SuggestTasksResult, error) {
		tasks, err := h.taskRepo.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load tasks: %w", err)
		}
		if len(tasks) == 0 {
			return &SuggestTasksResult{Message: EmptyStoreMessage}, nil
		}

		strategy := h.opts.strategy(query.Strategy)
		analysis := h.analyzer.Analyze(tasks, strategy)
		top := analysis.Top(h.opts.limit(query.Limit))

		h.metrics.Histogram(observability.MetricAnalysisTasks, float64(len(analysis.Tasks)), observability.T("strategy", string(strategy)))
		h.metrics.Counter(observability.MetricSuggestionsServed, int64(len(top)))
		h.notifier.notify(ctx, analysis)

		return &SuggestTasksResult{
			Date:     analysis.Date.Format(task.DateLayout),
			Strategy: string(strategy),
			Tasks:    toScoredTaskDTOs(top, h.opts.IncludeFactors),
		}, nil
	})
}
