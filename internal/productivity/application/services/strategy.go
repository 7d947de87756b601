package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Strategy names how sub-scores combine into a final score.
type Strategy string

const (
	StrategyFastestWins    Strategy = "fastest_wins"
	StrategyHighImpact     Strategy = "high_impact"
	StrategyDeadlineDriven Strategy = "deadline_driven"
	StrategySmartBalance   Strategy = "smart_balance"

	DefaultStrategy = StrategySmartBalance
)

// ParseStrategy trims the name and returns the default strategy when it is empty.
// Unknown names are kept as given; they score like smart_balance.
func ParseStrategy(name string) Strategy {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultStrategy
	}
	return Strategy(name)
}

// IsKnown reports whether the strategy has its own formula.
func (s Strategy) IsKnown() bool {
	switch s {
	case StrategyFastestWins, StrategyHighImpact, StrategyDeadlineDriven, StrategySmartBalance:
		return true
	}
	return false
}

func (s Strategy) String() string { return string(s) }

// StrategyInfo describes a strategy for listings.
type StrategyInfo struct {
	Name        Strategy `json:"name"`
	Description string   `json:"description"`
	Formula     string   `json:"formula"`
	Default     bool     `json:"default"`
}

// Strategies returns the catalogue of supported strategies.
func Strategies() []StrategyInfo {
	return []StrategyInfo{
		{
			Name:        StrategyFastestWins,
			Description: "Favor low effort, with a little urgency",
			Formula:     "effort×1.5 + urgency×0.5",
		},
		{
			Name:        StrategyHighImpact,
			Description: "Favor importance and tasks that block others",
			Formula:     "importance×1.2 + dependency×1.3",
		},
		{
			Name:        StrategyDeadlineDriven,
			Description: "Favor due dates over everything else",
			Formula:     "urgency×2 + importance×0.5",
		},
		{
			Name:        StrategySmartBalance,
			Description: "Weighted mix of urgency, importance, effort and dependencies",
			Formula:     "urgency×w.urgency + importance×w.importance + effort×w.effort + dependency×w.dependency",
			Default:     true,
		},
	}
}

// ErrInvalidWeights is returned for unknown metric names or negative weights.
var ErrInvalidWeights = errors.New("invalid weights")

// Weights are the smart_balance coefficients.
type Weights struct {
	Urgency    float64
	Importance float64
	Effort     float64
	Dependency float64
}

// DefaultWeights returns {urgency 0.4, importance 0.3, effort 0.2, dependency 0.1}.
func DefaultWeights() Weights {
	return Weights{
		Urgency:    0.4,
		Importance: 0.3,
		Effort:     0.2,
		Dependency: 0.1,
	}
}

// WeightsFromMap overrides the defaults with the named weights.
func WeightsFromMap(m map[string]float64) (Weights, error) {
	w := DefaultWeights()

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, name := range keys {
		v := m[name]
		if v < 0 {
			return Weights{}, fmt.Errorf("%w: %s must not be negative, got %g", ErrInvalidWeights, name, v)
		}
		switch name {
		case "urgency":
			w.Urgency = v
		case "importance":
			w.Importance = v
		case "effort":
			w.Effort = v
		case "dependency":
			w.Dependency = v
		default:
			return Weights{}, fmt.Errorf("%w: unknown metric %q", ErrInvalidWeights, name)
		}
	}
	return w, nil
}

// Map returns the weights keyed by metric name.
func (w Weights) Map() map[string]float64 {
	return map[string]float64{
		"urgency":    w.Urgency,
		"importance": w.Importance,
		"effort":     w.Effort,
		"dependency": w.Dependency,
	}
}
