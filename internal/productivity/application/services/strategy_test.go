package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	assert.Equal(t, StrategySmartBalance, ParseStrategy(""))
	assert.Equal(t, StrategySmartBalance, ParseStrategy("   "))
	assert.Equal(t, StrategyHighImpact, ParseStrategy(" high_impact "))
	assert.Equal(t, Strategy("whatever"), ParseStrategy("whatever"))
}

func TestStrategy_IsKnown(t *testing.T) {
	for _, info := range Strategies() {
		assert.True(t, info.Name.IsKnown(), info.Name)
	}
	assert.False(t, Strategy("random").IsKnown())
	assert.False(t, Strategy("").IsKnown())
}

func TestStrategies_SingleDefault(t *testing.T) {
	defaults := 0
	for _, info := range Strategies() {
		if info.Default {
			defaults++
			assert.Equal(t, DefaultStrategy, info.Name)
		}
		assert.NotEmpty(t, info.Description)
	}
	assert.Equal(t, 1, defaults)
}

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()

	assert.Equal(t, 0.4, w.Urgency)
	assert.Equal(t, 0.3, w.Importance)
	assert.Equal(t, 0.2, w.Effort)
	assert.Equal(t, 0.1, w.Dependency)
}

func TestWeightsFromMap(t *testing.T) {
	t.Run("missing keys keep defaults", func(t *testing.T) {
		w, err := WeightsFromMap(map[string]float64{"urgency": 1})
		require.NoError(t, err)
		assert.Equal(t, 1.0, w.Urgency)
		assert.Equal(t, 0.3, w.Importance)
	})

	t.Run("nil map yields defaults", func(t *testing.T) {
		w, err := WeightsFromMap(nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultWeights(), w)
	})

	t.Run("rejects unknown metric", func(t *testing.T) {
		_, err := WeightsFromMap(map[string]float64{"speed": 1})
		assert.ErrorIs(t, err, ErrInvalidWeights)
	})

	t.Run("rejects negative weight", func(t *testing.T) {
		_, err := WeightsFromMap(map[string]float64{"effort": -0.1})
		assert.ErrorIs(t, err, ErrInvalidWeights)
	})

	t.Run("round trips through Map", func(t *testing.T) {
		w, err := WeightsFromMap(DefaultWeights().Map())
		require.NoError(t, err)
		assert.Equal(t, DefaultWeights(), w)
	})
}
