package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/database"
)

const sqliteTaskColumns = `id, title, due_date, estimated_hours, importance, dependencies`

// SQLiteTaskRepository implements task.Repository using SQLite.
type SQLiteTaskRepository struct {
	conn database.Conn
}

// NewSQLiteTaskRepository creates a new SQLite task repository.
func NewSQLiteTaskRepository(conn database.Conn) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{conn: conn}
}

// Save inserts the task, or replaces the stored task with the same id.
func (r *SQLiteTaskRepository) Save(ctx context.Context, t task.Task) (int64, error) {
	exec := database.QuerierFor(ctx, r.conn)

	deps, err := encodeDependencies(t.Dependencies)
	if err != nil {
		return 0, err
	}

	if t.ID == nil {
		result, err := exec.Exec(ctx, `
			INSERT INTO tasks (title, due_date, estimated_hours, importance, dependencies)
			VALUES (?, ?, ?, ?, ?)`,
			t.Title, nullDate(t), nullHours(t), t.EffectiveImportance(), deps,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert task: %w", err)
		}
		return result.LastInsertId()
	}

	_, err = exec.Exec(ctx, `
		INSERT INTO tasks (id, title, due_date, estimated_hours, importance, dependencies)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			due_date = excluded.due_date,
			estimated_hours = excluded.estimated_hours,
			importance = excluded.importance,
			dependencies = excluded.dependencies,
			updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')`,
		*t.ID, t.Title, nullDate(t), nullHours(t), t.EffectiveImportance(), deps,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert task %d: %w", *t.ID, err)
	}
	return *t.ID, nil
}

// FindByID retrieves a task by its ID.
func (r *SQLiteTaskRepository) FindByID(ctx context.Context, id int64) (task.Task, error) {
	exec := database.QuerierFor(ctx, r.conn)

	row := exec.QueryRow(ctx, `SELECT `+sqliteTaskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanSQLiteTask(row)
	if err != nil {
		if database.IsNoRows(err) {
			return task.Task{}, ErrTaskNotFound
		}
		return task.Task{}, err
	}
	return t, nil
}

// FindAll retrieves every task ordered by id.
func (r *SQLiteTaskRepository) FindAll(ctx context.Context) ([]task.Task, error) {
	exec := database.QuerierFor(ctx, r.conn)

	rows, err := exec.Query(ctx, `SELECT `+sqliteTaskColumns+` FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]task.Task, 0)
	for rows.Next() {
		t, err := scanSQLiteTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Delete removes a task by its ID.
func (r *SQLiteTaskRepository) Delete(ctx context.Context, id int64) error {
	exec := database.QuerierFor(ctx, r.conn)

	result, err := exec.Exec(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func scanSQLiteTask(row database.Row) (task.Task, error) {
	var (
		id         int64
		title      string
		dueDate    sql.NullString
		hours      sql.NullFloat64
		importance int
		rawDeps    string
	)
	if err := row.Scan(&id, &title, &dueDate, &hours, &importance, &rawDeps); err != nil {
		return task.Task{}, err
	}

	due, err := dateFromNull(dueDate)
	if err != nil {
		return task.Task{}, fmt.Errorf("task %d: %w", id, err)
	}
	deps, err := decodeDependencies(rawDeps)
	if err != nil {
		return task.Task{}, fmt.Errorf("task %d: %w", id, err)
	}

	return task.Task{
		ID:             &id,
		Title:          title,
		DueDate:        due,
		EstimatedHours: hoursFromNull(hours),
		Importance:     importance,
		Dependencies:   deps,
	}, nil
}
