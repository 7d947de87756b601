package services

import (
	"testing"

	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
	"github.com/stretchr/testify/assert"
)

func TestDetectCycles(t *testing.T) {
	t.Run("two node mutual dependency", func(t *testing.T) {
		cycles := DetectCycles([]task.Task{
			{ID: idPtr(1), Dependencies: []int64{2}},
			{ID: idPtr(2), Dependencies: []int64{1}},
		})
		assert.Equal(t, []int64{1, 2}, cycles.IDs())
	})

	t.Run("acyclic chain", func(t *testing.T) {
		cycles := DetectCycles([]task.Task{
			{ID: idPtr(1), Dependencies: []int64{2}},
			{ID: idPtr(2), Dependencies: []int64{3}},
			{ID: idPtr(3)},
		})
		assert.Zero(t, cycles.Len())
	})

	t.Run("self dependency", func(t *testing.T) {
		cycles := DetectCycles([]task.Task{
			{ID: idPtr(5), Dependencies: []int64{5}},
			{ID: idPtr(6)},
		})
		assert.Equal(t, []int64{5}, cycles.IDs())
	})

	t.Run("three node ring marks every member", func(t *testing.T) {
		cycles := DetectCycles([]task.Task{
			{ID: idPtr(3), Dependencies: []int64{1}},
			{ID: idPtr(1), Dependencies: []int64{2}},
			{ID: idPtr(2), Dependencies: []int64{3}},
		})
		assert.Equal(t, []int64{1, 2, 3}, cycles.IDs())
	})

	t.Run("path leading into a cycle is marked from the root", func(t *testing.T) {
		cycles := DetectCycles([]task.Task{
			{ID: idPtr(1), Dependencies: []int64{2}},
			{ID: idPtr(2), Dependencies: []int64{3}},
			{ID: idPtr(3), Dependencies: []int64{2}},
		})
		assert.Equal(t, []int64{1, 2, 3}, cycles.IDs())
	})

	t.Run("entry node visited after the cycle is not marked", func(t *testing.T) {
		cycles := DetectCycles([]task.Task{
			{ID: idPtr(2), Dependencies: []int64{3}},
			{ID: idPtr(3), Dependencies: []int64{2}},
			{ID: idPtr(1), Dependencies: []int64{2}},
		})
		assert.Equal(t, []int64{2, 3}, cycles.IDs())
	})

	t.Run("dependencies outside the batch are leaves", func(t *testing.T) {
		cycles := DetectCycles([]task.Task{
			{ID: idPtr(1), Dependencies: []int64{50}},
			{ID: idPtr(2), Dependencies: []int64{50, 1}},
		})
		assert.Zero(t, cycles.Len())
	})

	t.Run("tasks without id are excluded", func(t *testing.T) {
		cycles := DetectCycles([]task.Task{
			{Dependencies: []int64{1}},
			{ID: idPtr(1)},
		})
		assert.Zero(t, cycles.Len())
		assert.False(t, cycles.Contains(nil))
	})
}

func TestDependencyGraph(t *testing.T) {
	g := NewDependencyGraph([]task.Task{
		{ID: idPtr(9), Dependencies: []int64{1}},
		{Title: "no id"},
		{ID: idPtr(1)},
	})

	assert.Equal(t, []int64{9, 1}, g.Nodes())
	assert.Equal(t, []int64{1}, g.Dependencies(9))
	assert.Empty(t, g.Dependencies(1))
	assert.True(t, g.Has(1))
	assert.False(t, g.Has(2))
}
