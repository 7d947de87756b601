package persistence

import (
	"errors"

	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
)

var (
	// ErrTaskNotFound is returned when no task is stored under the requested id.
	ErrTaskNotFound = task.ErrNotFound
	// ErrStoreUnavailable is returned while the store circuit breaker is open.
	ErrStoreUnavailable = errors.New("task store unavailable")
)
