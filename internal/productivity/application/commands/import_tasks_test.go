package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
)

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func int64Ptr(v int64) *int64 { return &v }

func TestImportTasksHandler_Handle(t *testing.T) {
	t.Run("saves every task inside one unit of work", func(t *testing.T) {
		repo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		metrics := observability.NewInMemoryMetrics()
		handler := NewImportTasksHandler(repo, uow, nil, metrics)

		uow.On("Begin", mock.Anything).Return(context.Background(), nil)
		uow.On("Commit", mock.Anything).Return(nil)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(t task.Task) bool { return t.Title == "A" })).Return(int64(1), nil)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(t task.Task) bool { return t.Title == "B" })).Return(int64(2), nil)

		result, err := handler.Handle(context.Background(), ImportTasksCommand{
			Tasks: []task.Task{
				{Title: "A", Importance: 5},
				{Title: "B", Importance: 6, Dependencies: []int64{1}},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, result.TaskIDs)
		assert.Zero(t, result.Removed)
		assert.Equal(t, int64(2), metrics.GetCounter(observability.MetricTasksCreated))
		repo.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("replace removes stored tasks first", func(t *testing.T) {
		repo := new(mockTaskRepo)
		handler := NewImportTasksHandler(repo, nil, nil, nil)

		repo.On("FindAll", mock.Anything).Return([]task.Task{
			{ID: int64Ptr(7), Title: "old", Importance: 5},
		}, nil)
		repo.On("Delete", mock.Anything, int64(7)).Return(nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(int64(8), nil)

		result, err := handler.Handle(context.Background(), ImportTasksCommand{
			Tasks:   []task.Task{{Title: "new", Importance: 5}},
			Replace: true,
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Removed)
		assert.Equal(t, []int64{8}, result.TaskIDs)
		repo.AssertExpectations(t)
	})

	t.Run("rolls back on save failure", func(t *testing.T) {
		repo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		handler := NewImportTasksHandler(repo, uow, nil, nil)
		storeErr := errors.New("constraint failed")

		uow.On("Begin", mock.Anything).Return(context.Background(), nil)
		uow.On("Rollback", mock.Anything).Return(nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(int64(0), storeErr)

		result, err := handler.Handle(context.Background(), ImportTasksCommand{
			Tasks: []task.Task{{Title: "A", Importance: 5}},
		})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, storeErr)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
		uow.AssertExpectations(t)
	})

	t.Run("invalid batch writes nothing", func(t *testing.T) {
		repo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		handler := NewImportTasksHandler(repo, uow, nil, nil)

		_, err := handler.Handle(context.Background(), ImportTasksCommand{
			Tasks: []task.Task{
				{ID: int64Ptr(1), Title: "A", Importance: 5},
				{ID: int64Ptr(1), Title: "B", Importance: 5},
			},
		})

		assert.ErrorIs(t, err, task.ErrDuplicateID)
		uow.AssertNotCalled(t, "Begin", mock.Anything)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
