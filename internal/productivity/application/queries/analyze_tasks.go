package queries

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/taskrank/internal/productivity/application/services"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
)

// AnalyzeTasksQuery contains a caller-supplied batch to prioritize.
type AnalyzeTasksQuery struct {
	Tasks    []TaskInput
	Strategy string
}

// AnalyzeTasksHandler handles the AnalyzeTasksQuery.
type AnalyzeTasksHandler struct {
	analyzer *services.Analyzer
	notifier prioritizedNotifier
	logger   *slog.Logger
	metrics  observability.Metrics
	opts     Options
}

// NewAnalyzeTasksHandler creates a new AnalyzeTasksHandler.
func NewAnalyzeTasksHandler(
	analyzer *services.Analyzer,
	publisher eventbus.Publisher,
	logger *slog.Logger,
	metrics observability.Metrics,
	opts Options,
) *AnalyzeTasksHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &AnalyzeTasksHandler{
		analyzer: analyzer,
		notifier: prioritizedNotifier{publisher: publisher, logger: logger, metrics: metrics},
		logger:   logger,
		metrics:  metrics,
		opts:     opts,
	}
}

// Handle validates the whole batch, then scores and sorts it.
// A validation failure returns a *task.ValidationError and no results.
func (h *AnalyzeTasksHandler) Handle(ctx context.Context, query AnalyzeTasksQuery) ([]ScoredTaskDTO, error) {
	return observability.TimeOperationResult(ctx, h.logger, h.metrics, "tasks.analyze", func() ([]ScoredTaskDTO, error) {
		tasks, err := ToTasks(query.Tasks)
		if err != nil {
			return nil, err
		}

		strategy := h.opts.strategy(query.Strategy)
		analysis := h.analyzer.Analyze(tasks, strategy)

		h.metrics.Histogram(observability.MetricAnalysisTasks, float64(len(analysis.Tasks)), observability.T("strategy", string(strategy)))
		h.metrics.Gauge(observability.MetricAnalysisCycles, float64(analysis.Cycles.Len()))
		h.notifier.notify(ctx, analysis)

		return toScoredTaskDTOs(analysis.Tasks, h.opts.IncludeFactors), nil
	})
}
