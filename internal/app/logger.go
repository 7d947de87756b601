package app

import (
	"log/slog"

	"github.com/felixgeelhaar/taskrank/pkg/config"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
)

// NewLogger builds the process logger from configuration. Production logs JSON
// unless LOG_FORMAT says otherwise. The returned LevelVar can raise verbosity later.
func NewLogger(cfg *config.Config, version string) (*slog.Logger, *slog.LevelVar) {
	logCfg := observability.DefaultLogConfig()
	if cfg.IsProduction() {
		logCfg = observability.ProductionLogConfig()
	}
	if cfg.LogLevel != "" {
		logCfg.Level = observability.LogLevel(cfg.LogLevel)
	}
	if cfg.LogFormat != "" {
		logCfg.Format = observability.LogFormat(cfg.LogFormat)
	}
	logCfg.ServiceVersion = version

	level := new(slog.LevelVar)
	logCfg.LevelVar = level
	return observability.NewLogger(logCfg), level
}
