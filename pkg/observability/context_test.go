package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequestContext(t *testing.T) {
	t.Run("keeps the caller's correlation id", func(t *testing.T) {
		ctx := NewRequestContext(context.Background(), "corr-1")

		assert.Equal(t, "corr-1", CorrelationIDFromContext(ctx))
		assert.NotEmpty(t, RequestIDFromContext(ctx))
		assert.NotEqual(t, "corr-1", RequestIDFromContext(ctx))
	})

	t.Run("generates both ids when none is given", func(t *testing.T) {
		ctx := NewRequestContext(context.Background(), "")

		assert.Len(t, CorrelationIDFromContext(ctx), 36)
		assert.Len(t, RequestIDFromContext(ctx), 36)
	})

	t.Run("empty context has no ids", func(t *testing.T) {
		assert.Empty(t, CorrelationIDFromContext(context.Background()))
		assert.Empty(t, RequestIDFromContext(context.Background()))
	})
}
