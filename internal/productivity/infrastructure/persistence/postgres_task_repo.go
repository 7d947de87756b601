package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/database"
)

const postgresTaskColumns = `id, title, due_date, estimated_hours, importance, dependencies`

// PostgresTaskRepository implements task.Repository using PostgreSQL.
// Dependencies live in a BIGINT[] column.
type PostgresTaskRepository struct {
	conn database.Conn
}

// NewPostgresTaskRepository creates a new PostgreSQL task repository.
func NewPostgresTaskRepository(conn database.Conn) *PostgresTaskRepository {
	return &PostgresTaskRepository{conn: conn}
}

// Save inserts the task, or replaces the stored task with the same id.
func (r *PostgresTaskRepository) Save(ctx context.Context, t task.Task) (int64, error) {
	exec := database.QuerierFor(ctx, r.conn)
	deps := t.Dependencies
	if deps == nil {
		deps = []int64{}
	}

	var id int64
	if t.ID == nil {
		err := exec.QueryRow(ctx, `
			INSERT INTO tasks (title, due_date, estimated_hours, importance, dependencies)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			t.Title, pgDate(t), nullHours(t), t.EffectiveImportance(), pq.Array(deps),
		).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("failed to insert task: %w", err)
		}
		return id, nil
	}

	err := exec.QueryRow(ctx, `
		INSERT INTO tasks (id, title, due_date, estimated_hours, importance, dependencies)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			due_date = EXCLUDED.due_date,
			estimated_hours = EXCLUDED.estimated_hours,
			importance = EXCLUDED.importance,
			dependencies = EXCLUDED.dependencies,
			updated_at = NOW()
		RETURNING id`,
		*t.ID, t.Title, pgDate(t), nullHours(t), t.EffectiveImportance(), pq.Array(deps),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert task %d: %w", *t.ID, err)
	}

	// explicit ids bypass the sequence, so move it past them
	if _, err := exec.Exec(ctx,
		`SELECT setval(pg_get_serial_sequence('tasks', 'id'), GREATEST((SELECT MAX(id) FROM tasks), 1))`,
	); err != nil {
		return 0, fmt.Errorf("failed to advance task id sequence: %w", err)
	}
	return id, nil
}

// FindByID retrieves a task by its ID.
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id int64) (task.Task, error) {
	exec := database.QuerierFor(ctx, r.conn)

	row := exec.QueryRow(ctx, `SELECT `+postgresTaskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanPostgresTask(row)
	if err != nil {
		if database.IsNoRows(err) {
			return task.Task{}, ErrTaskNotFound
		}
		return task.Task{}, err
	}
	return t, nil
}

// FindAll retrieves every task ordered by id.
func (r *PostgresTaskRepository) FindAll(ctx context.Context) ([]task.Task, error) {
	exec := database.QuerierFor(ctx, r.conn)

	rows, err := exec.Query(ctx, `SELECT `+postgresTaskColumns+` FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]task.Task, 0)
	for rows.Next() {
		t, err := scanPostgresTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Delete removes a task by its ID.
func (r *PostgresTaskRepository) Delete(ctx context.Context, id int64) error {
	exec := database.QuerierFor(ctx, r.conn)

	result, err := exec.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
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

func pgDate(t task.Task) any {
	if t.DueDate == nil {
		return nil
	}
	return task.FormatDate(t.DueDate)
}

func scanPostgresTask(row database.Row) (task.Task, error) {
	var (
		id         int64
		title      string
		dueDate    *time.Time
		hours      sql.NullFloat64
		importance int
		deps       []int64
	)
	if err := row.Scan(&id, &title, &dueDate, &hours, &importance, pq.Array(&deps)); err != nil {
		return task.Task{}, err
	}

	if dueDate != nil {
		d := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
		dueDate = &d
	}
	if len(deps) == 0 {
		deps = nil
	}

	return task.Task{
		ID:             &id,
		Title:          title,
		DueDate:        dueDate,
		EstimatedHours: hoursFromNull(hours),
		Importance:     importance,
		Dependencies:   deps,
	}, nil
}
