package services

import (
	"log/slog"
	"sort"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
)

// ScoredTask is a copy of a task enriched with its score and rationale.
type ScoredTask struct {
	task.Task
	Score       float64
	Explanation string
	Factors     Factors
}

// Analysis is the result of scoring one batch.
type Analysis struct {
	// Tasks are sorted by score, highest first. Ties keep batch order.
	Tasks    []ScoredTask
	Strategy Strategy
	Date     time.Time
	Cycles   CycleSet
}

// Top returns at most n of the highest scored tasks.
func (a Analysis) Top(n int) []ScoredTask {
	if n < 0 || n >= len(a.Tasks) {
		return a.Tasks
	}
	return a.Tasks[:n]
}

// Analyzer scores, explains and orders whole batches.
type Analyzer struct {
	engine *PriorityEngine
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer on top of the engine.
// A nil logger falls back to the engine's logger.
func NewAnalyzer(engine *PriorityEngine, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = engine.logger
	}
	return &Analyzer{engine: engine, logger: logger}
}

// Engine returns the underlying priority engine.
func (a *Analyzer) Engine() *PriorityEngine {
	return a.engine
}

// Analyze scores every task of the batch against one reference date and one
// cycle set, then sorts the result by score. The input is not modified.
func (a *Analyzer) Analyze(batch []task.Task, strategy Strategy) Analysis {
	if !strategy.IsKnown() {
		a.logger.Debug("unknown strategy, scoring with smart_balance", "strategy", string(strategy))
	}

	snap := NewSnapshot(batch, a.engine.Today())

	scored := make([]ScoredTask, len(batch))
	for i, t := range batch {
		score, factors := a.engine.Breakdown(t, snap, strategy)
		scored[i] = ScoredTask{
			Task:        t.Clone(),
			Score:       score,
			Explanation: a.engine.Explain(t, snap, strategy),
			Factors:     factors,
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	a.logger.Debug("batch analyzed",
		"strategy", string(strategy),
		"tasks", len(scored),
		"cycles", snap.Cycles.Len(),
	)

	return Analysis{
		Tasks:    scored,
		Strategy: strategy,
		Date:     snap.Today,
		Cycles:   snap.Cycles,
	}
}
