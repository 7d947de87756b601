package task

import "context"

// Repository defines the interface for task persistence.
type Repository interface {
	// Save inserts a task without an id or replaces the stored task with the same id.
	// It returns the id the task is stored under.
	Save(ctx context.Context, task Task) (int64, error)
	FindByID(ctx context.Context, id int64) (Task, error)
	// FindAll returns every stored task ordered by id.
	FindAll(ctx context.Context) ([]Task, error)
	Delete(ctx context.Context, id int64) error
}
