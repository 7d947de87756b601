package task

import (
	"time"

	"github.com/google/uuid"
)

const RoutingKeyPrioritized = "taskrank.tasks.prioritized"

// TasksPrioritized is emitted after a batch has been scored and sorted.
type TasksPrioritized struct {
	EventID       uuid.UUID `json:"event_id"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Strategy      string    `json:"strategy"`
	TaskCount     int       `json:"task_count"`
	CycleCount    int       `json:"cycle_count"`
	TopTaskID     *int64    `json:"top_task_id,omitempty"`
	TopTaskTitle  string    `json:"top_task_title,omitempty"`
	TopScore      float64   `json:"top_score"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewTasksPrioritized creates a TasksPrioritized event.
func NewTasksPrioritized(strategy string, taskCount, cycleCount int) TasksPrioritized {
	return TasksPrioritized{
		EventID:    uuid.New(),
		Strategy:   strategy,
		TaskCount:  taskCount,
		CycleCount: cycleCount,
		OccurredAt: time.Now().UTC(),
	}
}

// RoutingKey returns the routing key the event is published under.
func (e TasksPrioritized) RoutingKey() string { return RoutingKeyPrioritized }
