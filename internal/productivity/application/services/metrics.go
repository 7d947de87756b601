package services

import (
	"time"

	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
)

const (
	urgencyNoDeadline = 3
	effortUnknown     = 5
	maxDependency     = 10
	pointsPerBlocked  = 2
)

// UrgencyScore maps the number of calendar days until the due date onto [0,10].
func UrgencyScore(due *time.Time, today time.Time) int {
	if due == nil {
		return urgencyNoDeadline
	}

	days := DaysUntil(*due, today)
	switch {
	case days < 0:
		return 10
	case days == 0:
		return 9
	case days <= 3:
		return 8
	case days <= 7:
		return 6
	case days <= 14:
		return 4
	default:
		return 2
	}
}

// DaysUntil returns the whole calendar days from today to due.
// Each value is read as a civil date in its own location, so the time of day never matters.
// Day numbers are compared directly; a time.Duration would saturate past 292 years.
func DaysUntil(due, today time.Time) int {
	return int(dayNumber(due) - dayNumber(today))
}

// dayNumber counts days since 1970-01-01 for the civil date of t.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

const secondsPerDay = 24 * 60 * 60

// EffortScore favours quick wins: the fewer estimated hours, the higher the score.
// Negative estimates are not rejected here and land in the quickest bucket.
func EffortScore(hours *float64) int {
	if hours == nil {
		return effortUnknown
	}

	h := *hours
	switch {
	case h <= 1:
		return 10
	case h <= 3:
		return 8
	case h <= 6:
		return 5
	case h <= 10:
		return 3
	default:
		return 1
	}
}

// BlockerIndex counts, per task id, how many other tasks of a batch depend on it.
type BlockerIndex map[int64]int

// NewBlockerIndex builds the reverse adjacency of a batch in a single pass.
// A task listing the same dependency twice counts once, and a task never blocks itself.
func NewBlockerIndex(batch []task.Task) BlockerIndex {
	index := make(BlockerIndex)
	for _, t := range batch {
		seen := make(map[int64]struct{}, len(t.Dependencies))
		for _, dep := range t.Dependencies {
			if t.ID != nil && *t.ID == dep {
				continue
			}
			if _, ok := seen[dep]; ok {
				continue
			}
			seen[dep] = struct{}{}
			index[dep]++
		}
	}
	return index
}

// Blocked returns how many tasks depend on id.
func (b BlockerIndex) Blocked(id int64) int {
	return b[id]
}

// DependencyScore returns min(blocked×2, 10), or 0 when the task has no id.
func (b BlockerIndex) DependencyScore(id *int64) int {
	if id == nil {
		return 0
	}
	return min(b[*id]*pointsPerBlocked, maxDependency)
}

// DependencyScore scans the batch for tasks depending on id.
// It gives the same result as NewBlockerIndex(batch).DependencyScore(id).
func DependencyScore(id *int64, batch []task.Task) int {
	if id == nil {
		return 0
	}

	count := 0
	for _, t := range batch {
		if t.ID != nil && *t.ID == *id {
			continue
		}
		if t.DependsOn(*id) {
			count++
		}
	}
	return min(count*pointsPerBlocked, maxDependency)
}
