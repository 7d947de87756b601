package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/migrations"
)

func setupSQLiteRepo(t *testing.T) (*SQLiteTaskRepository, database.Conn) {
	t.Helper()
	ctx := context.Background()

	conn, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, migrations.Run(ctx, conn))
	return NewSQLiteTaskRepository(conn), conn
}

func sampleTask(title string) task.Task {
	due := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	hours := 2.5
	return task.Task{
		Title:          title,
		DueDate:        &due,
		EstimatedHours: &hours,
		Importance:     7,
		Dependencies:   []int64{3, 4},
	}
}

func TestSQLiteTaskRepository_SaveAndFind(t *testing.T) {
	repo, _ := setupSQLiteRepo(t)
	ctx := context.Background()

	id, err := repo.Save(ctx, sampleTask("Write report"))
	require.NoError(t, err)
	assert.Positive(t, id)

	found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, found.ID)
	assert.Equal(t, id, *found.ID)
	assert.Equal(t, "Write report", found.Title)
	assert.Equal(t, "2025-03-14", task.FormatDate(found.DueDate))
	require.NotNil(t, found.EstimatedHours)
	assert.InDelta(t, 2.5, *found.EstimatedHours, 0.0001)
	assert.Equal(t, 7, found.Importance)
	assert.Equal(t, []int64{3, 4}, found.Dependencies)
}

func TestSQLiteTaskRepository_OptionalFields(t *testing.T) {
	repo, _ := setupSQLiteRepo(t)
	ctx := context.Background()

	id, err := repo.Save(ctx, task.Task{Title: "Bare"})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, found.DueDate)
	assert.Nil(t, found.EstimatedHours)
	assert.Nil(t, found.Dependencies)
	assert.Equal(t, task.DefaultImportance, found.Importance)
}

func TestSQLiteTaskRepository_UpsertExplicitID(t *testing.T) {
	repo, _ := setupSQLiteRepo(t)
	ctx := context.Background()

	id := int64(42)
	original := sampleTask("Original")
	original.ID = &id
	saved, err := repo.Save(ctx, original)
	require.NoError(t, err)
	assert.Equal(t, id, saved)

	updated := original.Clone()
	updated.Title = "Updated"
	updated.Dependencies = nil
	_, err = repo.Save(ctx, updated)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Updated", found.Title)
	assert.Nil(t, found.Dependencies)

	next, err := repo.Save(ctx, sampleTask("After explicit"))
	require.NoError(t, err)
	assert.Greater(t, next, id)
}

func TestSQLiteTaskRepository_FindAllOrdered(t *testing.T) {
	repo, _ := setupSQLiteRepo(t)
	ctx := context.Background()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	for _, title := range []string{"A", "B", "C"} {
		_, err := repo.Save(ctx, task.Task{Title: title, Importance: 5})
		require.NoError(t, err)
	}

	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "A", all[0].Title)
	assert.Equal(t, "C", all[2].Title)
	assert.Less(t, *all[0].ID, *all[1].ID)
}

func TestSQLiteTaskRepository_NotFound(t *testing.T) {
	repo, _ := setupSQLiteRepo(t)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.ErrorIs(t, err, task.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, 999), ErrTaskNotFound)
}

func TestSQLiteTaskRepository_Delete(t *testing.T) {
	repo, _ := setupSQLiteRepo(t)
	ctx := context.Background()

	id, err := repo.Save(ctx, task.Task{Title: "Temporary", Importance: 3})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))

	_, err = repo.FindByID(ctx, id)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestSQLiteTaskRepository_RollbackInUnitOfWork(t *testing.T) {
	repo, conn := setupSQLiteRepo(t)
	ctx := context.Background()
	uow := database.NewUnitOfWork(conn)

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)

	_, err = repo.Save(txCtx, task.Task{Title: "Rolled back", Importance: 5})
	require.NoError(t, err)
	require.NoError(t, uow.Rollback(txCtx))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
