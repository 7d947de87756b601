package observability

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// fieldErrors is implemented by errors that describe rejected caller input,
// such as task validation failures.
type fieldErrors interface {
	Fields() map[string][]string
}

// IsRejectedInput reports whether err, or an error it wraps, describes bad caller input.
func IsRejectedInput(err error) bool {
	var fe fieldErrors
	return errors.As(err, &fe)
}

// TimeOperationResult runs fn and records its duration and outcome under op.
// Rejected input is logged at warn and counted separately from failures.
func TimeOperationResult[T any](ctx context.Context, logger *slog.Logger, metrics Metrics, op string, fn func() (T, error)) (T, error) {
	start := time.Now()
	result, err := fn()
	recordOperation(ctx, logger, metrics, op, time.Since(start), err)
	return result, err
}

func recordOperation(ctx context.Context, logger *slog.Logger, metrics Metrics, op string, elapsed time.Duration, err error) {
	rejected := err != nil && IsRejectedInput(err)

	if logger != nil {
		attrs := []any{"operation", op, "duration_ms", elapsed.Milliseconds()}
		switch {
		case err == nil:
			logger.InfoContext(ctx, "operation completed", attrs...)
		case rejected:
			logger.WarnContext(ctx, "operation rejected input", append(attrs, "error", err.Error())...)
		default:
			logger.ErrorContext(ctx, "operation failed", append(attrs, "error", err.Error())...)
		}
	}

	if metrics == nil {
		return
	}
	tag := T("operation", op)
	metrics.Timing(MetricOperationDuration, elapsed, tag)
	metrics.Counter(MetricOperationTotal, 1, tag)
	switch {
	case rejected:
		metrics.Counter(MetricOperationRejected, 1, tag)
	case err != nil:
		metrics.Counter(MetricOperationErrors, 1, tag)
	}
}
