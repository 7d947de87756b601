package services

import (
	"log/slog"
	"math"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
)

// PriorityEngineConfig tunes how sub-scores combine into a score.
type PriorityEngineConfig struct {
	Weights Weights
	// Now supplies the reference date of a batch. Defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// DefaultPriorityEngineConfig returns a production-friendly configuration.
func DefaultPriorityEngineConfig() PriorityEngineConfig {
	return PriorityEngineConfig{
		Weights: DefaultWeights(),
		Now:     time.Now,
	}
}

// Factors are the four sub-scores behind a task's score.
type Factors struct {
	Urgency    int `json:"urgency"`
	Importance int `json:"importance"`
	Effort     int `json:"effort"`
	Dependency int `json:"dependency"`
}

// Snapshot is the per-batch state every task of a batch is scored against.
// It is built once and never changes afterwards.
type Snapshot struct {
	Today    time.Time
	Blockers BlockerIndex
	Cycles   CycleSet
}

// NewSnapshot detects cycles and indexes blockers for a batch.
func NewSnapshot(batch []task.Task, today time.Time) Snapshot {
	return Snapshot{
		Today:    today,
		Blockers: NewBlockerIndex(batch),
		Cycles:   DetectCycles(batch),
	}
}

// PriorityEngine computes priority scores from task attributes.
// It holds no per-batch state and is safe for concurrent use.
type PriorityEngine struct {
	config PriorityEngineConfig
	logger *slog.Logger
}

// NewPriorityEngine creates a new engine with the given configuration.
func NewPriorityEngine(cfg PriorityEngineConfig) *PriorityEngine {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PriorityEngine{config: cfg, logger: logger}
}

// Weights returns the smart_balance weights in use.
func (e *PriorityEngine) Weights() Weights {
	return e.config.Weights
}

// Today returns the current reference date.
func (e *PriorityEngine) Today() time.Time {
	return e.config.Now()
}

// Factors computes the sub-scores of a task.
func (e *PriorityEngine) Factors(t task.Task, snap Snapshot) Factors {
	return Factors{
		Urgency:    UrgencyScore(t.DueDate, snap.Today),
		Importance: t.EffectiveImportance(),
		Effort:     EffortScore(t.EstimatedHours),
		Dependency: snap.Blockers.DependencyScore(t.ID),
	}
}

// Score computes the strategy-weighted score of a task, rounded to two decimals.
func (e *PriorityEngine) Score(t task.Task, snap Snapshot, strategy Strategy) float64 {
	score, _ := e.Breakdown(t, snap, strategy)
	return score
}

// Breakdown returns the score together with the sub-scores it was built from.
func (e *PriorityEngine) Breakdown(t task.Task, snap Snapshot, strategy Strategy) (float64, Factors) {
	f := e.Factors(t, snap)
	return e.combine(f, strategy), f
}

func (e *PriorityEngine) combine(f Factors, strategy Strategy) float64 {
	urgency := float64(f.Urgency)
	importance := float64(f.Importance)
	effort := float64(f.Effort)
	dependency := float64(f.Dependency)

	var score float64
	switch strategy {
	case StrategyFastestWins:
		score = effort*1.5 + urgency*0.5
	case StrategyHighImpact:
		score = importance*1.2 + dependency*1.3
	case StrategyDeadlineDriven:
		score = urgency*2 + importance*0.5
	default:
		w := e.config.Weights
		score = urgency*w.Urgency +
			importance*w.Importance +
			effort*w.Effort +
			dependency*w.Dependency
	}

	return round2(score)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100 // keep two decimal places
}
