package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
)

const cycleWarning = "⚠ In a circular dependency – review dependencies"

// Explain builds the human-readable rationale of a task's score.
// Clauses appear in a fixed order and are joined with "; ".
func (e *PriorityEngine) Explain(t task.Task, snap Snapshot, strategy Strategy) string {
	parts := make([]string, 0, 6)

	parts = append(parts, deadlineClause(t, snap))
	parts = append(parts, fmt.Sprintf("Importance: %d/10", t.EffectiveImportance()))

	if t.EstimatedHours != nil {
		parts = append(parts, fmt.Sprintf("Estimated effort: %s hour(s)", formatHours(*t.EstimatedHours)))
	}
	if snap.Blockers.DependencyScore(t.ID) > 0 {
		parts = append(parts, "Blocks other tasks")
	}
	if snap.Cycles.Contains(t.ID) {
		parts = append(parts, cycleWarning)
	}

	parts = append(parts, "Strategy: "+string(strategy))

	return strings.Join(parts, "; ")
}

func deadlineClause(t task.Task, snap Snapshot) string {
	if t.DueDate == nil {
		return "No strict deadline"
	}

	days := DaysUntil(*t.DueDate, snap.Today)
	switch {
	case days < 0:
		return "Overdue task"
	case days == 0:
		return "Due today"
	case days <= 3:
		return fmt.Sprintf("Due soon (in %d day(s))", days)
	default:
		return fmt.Sprintf("Due later (in %d day(s))", days)
	}
}

// formatHours prints whole numbers with one decimal ("2.0") and anything else in its shortest form ("1.5").
func formatHours(h float64) string {
	s := strconv.FormatFloat(h, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}
