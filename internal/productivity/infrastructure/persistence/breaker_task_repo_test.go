package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Save(ctx context.Context, t task.Task) (int64, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) FindByID(ctx context.Context, id int64) (task.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(task.Task), args.Error(1)
}

func (m *mockRepo) FindAll(ctx context.Context) ([]task.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.Task), args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Hour,
		FailureThreshold: 2,
	}
}

func TestBreakerTaskRepository_PassesThrough(t *testing.T) {
	inner := new(mockRepo)
	repo := NewBreakerTaskRepository(inner, testBreakerConfig(), nil, nil)
	ctx := context.Background()

	id := int64(1)
	inner.On("Save", ctx, mock.Anything).Return(int64(1), nil)
	inner.On("FindByID", ctx, id).Return(task.Task{ID: &id, Title: "A"}, nil)
	inner.On("FindAll", ctx).Return([]task.Task{{ID: &id, Title: "A"}}, nil)
	inner.On("Delete", ctx, id).Return(nil)

	saved, err := repo.Save(ctx, task.Task{Title: "A"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved)

	found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "A", found.Title)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.NoError(t, repo.Delete(ctx, id))
	inner.AssertExpectations(t)
}

func TestBreakerTaskRepository_OpensAfterFailures(t *testing.T) {
	inner := new(mockRepo)
	metrics := observability.NewInMemoryMetrics()
	repo := NewBreakerTaskRepository(inner, testBreakerConfig(), nil, metrics)
	ctx := context.Background()

	boom := errors.New("connection refused")
	inner.On("FindAll", ctx).Return(nil, boom).Twice()

	for i := 0; i < 2; i++ {
		_, err := repo.FindAll(ctx)
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, gobreaker.StateOpen, repo.State())
	assert.Equal(t, float64(gobreaker.StateOpen),
		metrics.GetGauge(observability.MetricStoreBreaker, observability.T("breaker", "task-store")))

	_, err := repo.FindAll(ctx)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	inner.AssertNumberOfCalls(t, "FindAll", 2)
}

func TestBreakerTaskRepository_NotFoundIsNotAFailure(t *testing.T) {
	inner := new(mockRepo)
	repo := NewBreakerTaskRepository(inner, testBreakerConfig(), nil, nil)
	ctx := context.Background()

	inner.On("FindByID", ctx, int64(7)).Return(task.Task{}, ErrTaskNotFound)
	inner.On("Delete", ctx, int64(7)).Return(ErrTaskNotFound)

	for i := 0; i < 3; i++ {
		_, err := repo.FindByID(ctx, 7)
		assert.ErrorIs(t, err, task.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, 7), task.ErrNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, repo.State())
}
