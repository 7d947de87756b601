package services

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
	"github.com/stretchr/testify/assert"
)

var refToday = time.Date(2025, 6, 15, 18, 30, 0, 0, time.Local)

func dayOffset(days int) *time.Time {
	d := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
	return &d
}

func idPtr(v int64) *int64         { return &v }
func hoursPtr(v float64) *float64 { return &v }

func TestUrgencyScore(t *testing.T) {
	tests := []struct {
		name string
		due  *time.Time
		want int
	}{
		{"no due date", nil, 3},
		{"overdue", dayOffset(-1), 10},
		{"long overdue", dayOffset(-30), 10},
		{"due today", dayOffset(0), 9},
		{"tomorrow", dayOffset(1), 8},
		{"three days", dayOffset(3), 8},
		{"four days", dayOffset(4), 6},
		{"one week", dayOffset(7), 6},
		{"eight days", dayOffset(8), 4},
		{"two weeks", dayOffset(14), 4},
		{"far future", dayOffset(15), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UrgencyScore(tt.due, refToday)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 10)
		})
	}
}

func TestDaysUntil_IgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)
	early := time.Date(2025, 6, 16, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, 1, DaysUntil(early, late))
	assert.Equal(t, -1, DaysUntil(late, early))
	assert.Equal(t, 0, DaysUntil(*dayOffset(0), refToday))
}

func TestDaysUntil_FarDates(t *testing.T) {
	today := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		due  time.Time
		want int
	}{
		{"next leap day", time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC), 1086},
		{"beyond duration range", time.Date(2500, 3, 10, 0, 0, 0, 0, time.UTC), 173490},
		{"last representable date", time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC), 2912739},
		{"year one", time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), -739319},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntil(tt.due, today))
		})
	}
}

func TestEffortScore(t *testing.T) {
	tests := []struct {
		name  string
		hours *float64
		want  int
	}{
		{"missing", nil, 5},
		{"negative", hoursPtr(-2), 10},
		{"zero", hoursPtr(0), 10},
		{"one hour", hoursPtr(1), 10},
		{"just over an hour", hoursPtr(1.01), 8},
		{"three hours", hoursPtr(3), 8},
		{"six hours", hoursPtr(6), 5},
		{"ten hours", hoursPtr(10), 3},
		{"heavy", hoursPtr(10.5), 1},
	}

	allowed := []int{1, 3, 5, 8, 10}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffortScore(tt.hours)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, allowed, got)
		})
	}
}

func TestDependencyScore(t *testing.T) {
	batch := []task.Task{
		{ID: idPtr(1), Title: "root"},
		{ID: idPtr(2), Title: "a", Dependencies: []int64{1}},
		{ID: idPtr(3), Title: "b", Dependencies: []int64{1, 1}},
		{ID: idPtr(4), Title: "c", Dependencies: []int64{4}},
		{Title: "anonymous", Dependencies: []int64{1, 99}},
	}

	t.Run("counts each blocked task once", func(t *testing.T) {
		assert.Equal(t, 6, DependencyScore(idPtr(1), batch))
	})

	t.Run("ignores self references", func(t *testing.T) {
		assert.Equal(t, 0, DependencyScore(idPtr(4), batch))
	})

	t.Run("nil id scores zero", func(t *testing.T) {
		assert.Equal(t, 0, DependencyScore(nil, batch))
	})

	t.Run("ids outside the batch can still be blocking", func(t *testing.T) {
		assert.Equal(t, 2, DependencyScore(idPtr(99), batch))
	})

	t.Run("caps at ten", func(t *testing.T) {
		var many []task.Task
		for i := int64(10); i < 20; i++ {
			many = append(many, task.Task{ID: idPtr(i), Dependencies: []int64{1}})
		}
		assert.Equal(t, 10, DependencyScore(idPtr(1), many))
		assert.Equal(t, 10, NewBlockerIndex(many).DependencyScore(idPtr(1)))
	})
}

func TestBlockerIndex_MatchesScan(t *testing.T) {
	batch := []task.Task{
		{ID: idPtr(1), Dependencies: []int64{2, 3}},
		{ID: idPtr(2), Dependencies: []int64{3, 3, 2}},
		{ID: idPtr(3), Dependencies: []int64{1}},
		{ID: idPtr(4), Dependencies: []int64{1, 2, 3, 42}},
		{Dependencies: []int64{3}},
	}
	index := NewBlockerIndex(batch)

	for _, id := range []int64{1, 2, 3, 4, 42, 100} {
		got := index.DependencyScore(idPtr(id))
		assert.Equal(t, DependencyScore(idPtr(id), batch), got, "id %d", id)
		assert.Zero(t, got%2)
		assert.LessOrEqual(t, got, 10)
	}
	assert.Equal(t, 0, index.DependencyScore(nil))
	assert.Equal(t, 4, index.Blocked(3))
}
