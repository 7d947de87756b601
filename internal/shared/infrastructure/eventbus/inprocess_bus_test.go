package eventbus_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/eventbus"
)

func TestInProcessEventBus_Publish(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(nil)
	consumer := &mockConsumer{eventTypes: []string{"taskrank.tasks.*"}}
	bus.RegisterConsumer(consumer)

	id := uuid.New()
	payload, err := json.Marshal(map[string]any{"event_id": id, "strategy": "smart_balance"})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), "taskrank.tasks.prioritized", payload))

	require.Len(t, consumer.events, 1)
	assert.Equal(t, id, consumer.events[0].EventID)
	assert.Equal(t, "taskrank.tasks.prioritized", consumer.events[0].RoutingKey)
	assert.JSONEq(t, string(payload), string(consumer.events[0].Payload))
}

func TestInProcessEventBus_NoConsumers(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(nil)

	err := bus.Publish(context.Background(), "unknown.event.type", []byte(`{}`))
	require.NoError(t, err)
}

func TestInProcessEventBus_SwallowsFailures(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(nil)
	consumer := &mockConsumer{
		eventTypes: []string{"taskrank.tasks.prioritized"},
		err:        errors.New("consumer error"),
	}
	bus.RegisterConsumer(consumer)

	ctx := context.Background()
	assert.NoError(t, bus.Publish(ctx, "taskrank.tasks.prioritized", []byte(`{}`)))
	assert.Len(t, consumer.events, 1)

	// Malformed payloads are dropped without reaching consumers.
	assert.NoError(t, bus.Publish(ctx, "taskrank.tasks.prioritized", []byte("{")))
	assert.Len(t, consumer.events, 1)
	assert.NoError(t, bus.Close())
}
