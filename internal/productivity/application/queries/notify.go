package queries

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/felixgeelhaar/taskrank/internal/productivity/application/services"
	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
)

// prioritizedNotifier announces finished analyses on the event bus.
// Publishing is best effort: failures are logged and counted, never returned.
type prioritizedNotifier struct {
	publisher eventbus.Publisher
	logger    *slog.Logger
	metrics   observability.Metrics
}

func (n prioritizedNotifier) notify(ctx context.Context, analysis services.Analysis) {
	if n.publisher == nil {
		return
	}

	evt := task.NewTasksPrioritized(string(analysis.Strategy), len(analysis.Tasks), analysis.Cycles.Len())
	evt.CorrelationID = observability.CorrelationIDFromContext(ctx)
	if len(analysis.Tasks) > 0 {
		top := analysis.Tasks[0]
		evt.TopTaskID = top.ID
		evt.TopTaskTitle = top.Title
		evt.TopScore = top.Score
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to encode event", "routing_key", evt.RoutingKey(), "error", err)
		return
	}

	if err := n.publisher.Publish(ctx, evt.RoutingKey(), payload); err != nil {
		n.logger.WarnContext(ctx, "failed to publish event", "routing_key", evt.RoutingKey(), "error", err)
		n.metrics.Counter(observability.MetricEventsFailed, 1, observability.T("routing_key", evt.RoutingKey()))
		return
	}
	n.metrics.Counter(observability.MetricEventsPublished, 1, observability.T("routing_key", evt.RoutingKey()))
}
