package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Task store backends.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

var (
	ErrUnknownStore       = errors.New("unknown task store")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for the postgres store")
	ErrInvalidLimit       = errors.New("SUGGEST_LIMIT must be positive")
	ErrNegativeWeight     = errors.New("strategy weights cannot be negative")
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string

	// Store
	TaskStore   string
	DatabaseURL string
	SQLitePath  string

	// Redis
	RedisURL       string
	RedisKeyPrefix string

	// RabbitMQ; an empty URL keeps events in process
	RabbitMQURL    string
	EventsExchange string

	// Store circuit breaker
	StoreBreakerEnabled  bool
	StoreBreakerFailures int
	StoreBreakerTimeout  time.Duration

	// HTTP API
	APIAddr string

	// MCP
	MCPAddr      string
	MCPAuthToken string

	// Event worker
	WorkerQueue         string
	WorkerHealthAddr    string
	WorkerStatsInterval time.Duration

	// Prioritization
	DefaultStrategy  string
	SuggestLimit     int
	WeightUrgency    float64
	WeightImportance float64
	WeightEffort     float64
	WeightDependency float64
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", ""),

		TaskStore:   strings.ToLower(getEnv("TASK_STORE", StoreSQLite)),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", ""),

		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", "taskrank"),

		RabbitMQURL:    getEnv("RABBITMQ_URL", ""),
		EventsExchange: getEnv("EVENTS_EXCHANGE", "taskrank.events"),

		StoreBreakerEnabled:  getBoolEnv("STORE_BREAKER_ENABLED", true),
		StoreBreakerFailures: getIntEnv("STORE_BREAKER_FAILURES", 5),
		StoreBreakerTimeout:  getDurationEnv("STORE_BREAKER_TIMEOUT", 30*time.Second),

		APIAddr: getEnv("API_ADDR", "127.0.0.1:8000"),

		MCPAddr:      getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),

		WorkerQueue:         getEnv("WORKER_QUEUE", "taskrank.consumer"),
		WorkerHealthAddr:    getEnv("WORKER_HEALTH_ADDR", ""),
		WorkerStatsInterval: getDurationEnv("WORKER_STATS_INTERVAL", time.Minute),

		DefaultStrategy:  getEnv("DEFAULT_STRATEGY", "smart_balance"),
		SuggestLimit:     getIntEnv("SUGGEST_LIMIT", 3),
		WeightUrgency:    getFloatEnv("WEIGHT_URGENCY", 0.4),
		WeightImportance: getFloatEnv("WEIGHT_IMPORTANCE", 0.3),
		WeightEffort:     getFloatEnv("WEIGHT_EFFORT", 0.2),
		WeightDependency: getFloatEnv("WEIGHT_DEPENDENCY", 0.1),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted away.
func (c *Config) Validate() error {
	switch c.TaskStore {
	case StoreSQLite, StoreRedis:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStore, c.TaskStore)
	}

	if c.SuggestLimit <= 0 {
		return ErrInvalidLimit
	}

	for _, w := range []float64{c.WeightUrgency, c.WeightImportance, c.WeightEffort, c.WeightDependency} {
		if w < 0 {
			return ErrNegativeWeight
		}
	}
	return nil
}

// Weights returns the smart_balance weights keyed by factor name.
func (c *Config) Weights() map[string]float64 {
	return map[string]float64{
		"urgency":    c.WeightUrgency,
		"importance": c.WeightImportance,
		"effort":     c.WeightEffort,
		"dependency": c.WeightDependency,
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
