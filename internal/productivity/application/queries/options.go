package queries

import (
	"strings"

	"github.com/felixgeelhaar/taskrank/internal/productivity/application/services"
)

// DefaultSuggestLimit is how many tasks Suggest returns when no limit is given.
const DefaultSuggestLimit = 3

// Options holds the defaults applied when a query leaves a field empty.
type Options struct {
	DefaultStrategy services.Strategy
	SuggestLimit    int
	// IncludeFactors adds the sub-score breakdown to every scored task.
	IncludeFactors bool
}

// DefaultOptions returns the smart_balance strategy and a limit of three.
func DefaultOptions() Options {
	return Options{
		DefaultStrategy: services.DefaultStrategy,
		SuggestLimit:    DefaultSuggestLimit,
	}
}

func (o Options) strategy(name string) services.Strategy {
	if strings.TrimSpace(name) == "" && o.DefaultStrategy != "" {
		return o.DefaultStrategy
	}
	return services.ParseStrategy(name)
}

func (o Options) limit(n int) int {
	if n > 0 {
		return n
	}
	if o.SuggestLimit > 0 {
		return o.SuggestLimit
	}
	return DefaultSuggestLimit
}
