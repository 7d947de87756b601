package persistence

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
)

// encodeDependencies stores dependency ids as a JSON array for drivers without array columns.
func encodeDependencies(deps []int64) (string, error) {
	if deps == nil {
		deps = []int64{}
	}
	b, err := json.Marshal(deps)
	if err != nil {
		return "", fmt.Errorf("failed to encode dependencies: %w", err)
	}
	return string(b), nil
}

func decodeDependencies(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	var deps []int64
	if err := json.Unmarshal([]byte(raw), &deps); err != nil {
		return nil, fmt.Errorf("failed to decode dependencies: %w", err)
	}
	if len(deps) == 0 {
		return nil, nil
	}
	return deps, nil
}

func nullDate(t task.Task) sql.NullString {
	if t.DueDate == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: task.FormatDate(t.DueDate), Valid: true}
}

func nullHours(t task.Task) sql.NullFloat64 {
	if t.EstimatedHours == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *t.EstimatedHours, Valid: true}
}

func dateFromNull(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	d, err := task.ParseDate(v.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func hoursFromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	h := v.Float64
	return &h
}
