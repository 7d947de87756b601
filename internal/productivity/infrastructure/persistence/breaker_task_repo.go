package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
)

// BreakerConfig configures the store circuit breaker.
type BreakerConfig struct {
	// MaxRequests is the maximum number of requests allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	Interval time.Duration

	// Timeout is the period of the open state.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns a sensible default configuration.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerTaskRepository guards another repository with a circuit breaker.
// While open, every call fails fast with ErrStoreUnavailable.
type BreakerTaskRepository struct {
	next    task.Repository
	breaker *gobreaker.CircuitBreaker[any]
}

// NewBreakerTaskRepository wraps next. Missing tasks and cancelled contexts do not count as failures.
func NewBreakerTaskRepository(next task.Repository, cfg BreakerConfig, logger *slog.Logger, metrics observability.Metrics) *BreakerTaskRepository {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}

	settings := gobreaker.Settings{
		Name:        "task-store",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrTaskNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.Gauge(observability.MetricStoreBreaker, float64(to), observability.T("breaker", name))
		},
	}

	return &BreakerTaskRepository{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}
}

// State returns the current breaker state.
func (r *BreakerTaskRepository) State() gobreaker.State {
	return r.breaker.State()
}

func (r *BreakerTaskRepository) execute(fn func() (any, error)) (any, error) {
	result, err := r.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return result, err
}

// Save implements task.Repository.
func (r *BreakerTaskRepository) Save(ctx context.Context, t task.Task) (int64, error) {
	result, err := r.execute(func() (any, error) {
		return r.next.Save(ctx, t)
	})
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

// FindByID implements task.Repository.
func (r *BreakerTaskRepository) FindByID(ctx context.Context, id int64) (task.Task, error) {
	result, err := r.execute(func() (any, error) {
		return r.next.FindByID(ctx, id)
	})
	if err != nil {
		return task.Task{}, err
	}
	return result.(task.Task), nil
}

// FindAll implements task.Repository.
func (r *BreakerTaskRepository) FindAll(ctx context.Context) ([]task.Task, error) {
	result, err := r.execute(func() (any, error) {
		return r.next.FindAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]task.Task), nil
}

// Delete implements task.Repository.
func (r *BreakerTaskRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.execute(func() (any, error) {
		return nil, r.next.Delete(ctx, id)
	})
	return err
}
