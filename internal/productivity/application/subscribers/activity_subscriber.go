package subscribers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/eventbus"
)

// DefaultActivityCapacity is how many prioritization events are remembered.
const DefaultActivityCapacity = 50

// ActivitySubscriber records recent prioritization events and optionally forwards them.
type ActivitySubscriber struct {
	capacity int
	logger   *slog.Logger
	sink     func(task.TasksPrioritized)

	mu     sync.RWMutex
	recent []task.TasksPrioritized
	stats  ActivityStats
}

// ActivityStats summarizes what the subscriber has seen since it started.
type ActivityStats struct {
	Received     int64     `json:"received"`
	Rejected     int64     `json:"rejected"`
	LastEventAt  time.Time `json:"last_event_at,omitempty"`
	LastStrategy string    `json:"last_strategy,omitempty"`
}

// NewActivitySubscriber creates a subscriber keeping up to capacity events.
func NewActivitySubscriber(capacity int, logger *slog.Logger) *ActivitySubscriber {
	if capacity <= 0 {
		capacity = DefaultActivityCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivitySubscriber{
		capacity: capacity,
		logger:   logger,
	}
}

// OnEvent sets a callback run for every recorded event.
func (s *ActivitySubscriber) OnEvent(fn func(task.TasksPrioritized)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = fn
}

// EventTypes returns the event types this subscriber handles.
func (s *ActivitySubscriber) EventTypes() []string {
	return []string{task.RoutingKeyPrioritized}
}

// Handle processes an event. Undecodable payloads are counted and dropped,
// since a redelivery would fail the same way.
func (s *ActivitySubscriber) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var evt task.TasksPrioritized
	if err := event.Decode(&evt); err != nil {
		s.logger.WarnContext(ctx, "dropping malformed prioritization event",
			"event_id", event.EventID,
			"error", err,
		)
		s.mu.Lock()
		s.stats.Rejected++
		s.mu.Unlock()
		return nil
	}

	s.logger.InfoContext(ctx, "tasks prioritized",
		"event_id", evt.EventID,
		"correlation_id", evt.CorrelationID,
		"strategy", evt.Strategy,
		"task_count", evt.TaskCount,
		"cycle_count", evt.CycleCount,
		"top_task", evt.TopTaskTitle,
	)

	s.mu.Lock()
	s.stats.Received++
	s.stats.LastEventAt = evt.OccurredAt
	s.stats.LastStrategy = evt.Strategy
	s.recent = append(s.recent, evt)
	if len(s.recent) > s.capacity {
		s.recent = s.recent[len(s.recent)-s.capacity:]
	}
	sink := s.sink
	s.mu.Unlock()

	if sink != nil {
		sink(evt)
	}
	return nil
}

// Recent returns up to limit events, newest first. A non-positive limit returns all.
func (s *ActivitySubscriber) Recent(limit int) []task.TasksPrioritized {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.recent)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]task.TasksPrioritized, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.recent[i])
	}
	return out
}

// Stats returns a snapshot of the counters.
func (s *ActivitySubscriber) Stats() ActivityStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}
