// pkg/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix    = "RECONNECT_"
	configEnvVar = "CONFIG_PATH"
)

// Loader loads configuration from multiple sources.
type Loader struct {
	k           *koanf.Koanf
	configPaths []string
	envPrefix   string
}

// NewLoader creates a configuration loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		k: koanf.New("."),
		configPaths: []string{
			"config.yaml",
			"config/config.yaml",
			"/etc/reconnect/config.yaml",
		},
		envPrefix: envPrefix,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// LoaderOption customizes the loader.
type LoaderOption func(*Loader)

// WithConfigPaths sets the config file search paths.
func WithConfigPaths(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.configPaths = paths
	}
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// Load reads configuration with the priority:
// 1. Defaults (lowest)
// 2. Config file (yaml)
// 3. Environment variables (highest)
func (l *Loader) Load() (*Config, error) {
	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// The config file is optional.
	if err := l.loadConfigFile(); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}

	if err := l.loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadDefaults seeds the built-in default values.
func (l *Loader) loadDefaults() error {
	defaults := map[string]any{
		// App
		"app.name":        "planner-service",
		"app.version":     "1.0.0",
		"app.environment": "development",
		"app.debug":       false,

		// HTTP
		"http.port":             8080,
		"http.read_timeout":     30 * time.Second,
		"http.write_timeout":    30 * time.Second,
		"http.shutdown_timeout": 10 * time.Second,

		// Log
		"log.level":       "info",
		"log.format":      "json",
		"log.output":      "stdout",
		"log.max_size":    100,
		"log.max_backups": 3,
		"log.max_age":     7,
		"log.compress":    true,

		// Metrics
		"metrics.enabled":   true,
		"metrics.path":      "/metrics",
		"metrics.namespace": "reconnect",
		"metrics.subsystem": "",

		// Tracing
		"tracing.enabled":      false,
		"tracing.endpoint":     "localhost:4317",
		"tracing.service_name": "planner-service",
		"tracing.sample_rate":  0.1,

		// Database
		"database.enabled":            false,
		"database.host":               "localhost",
		"database.port":               5432,
		"database.database":           "reconnect",
		"database.username":           "postgres",
		"database.password":           "",
		"database.ssl_mode":           "disable",
		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  5 * time.Minute,
		"database.conn_max_idle_time": 5 * time.Minute,
		"database.auto_migrate":       true,

		// Cache
		"cache.enabled":     true,
		"cache.driver":      "memory",
		"cache.host":        "localhost",
		"cache.port":        6379,
		"cache.db":          0,
		"cache.default_ttl": 5 * time.Minute,
		"cache.max_entries": 10000,

		// Rate limiting
		"ratelimit.enabled":          false,
		"ratelimit.requests":         100,
		"ratelimit.window":           time.Minute,
		"ratelimit.strategy":         "sliding_window",
		"ratelimit.backend":          "memory",
		"ratelimit.burst_size":       10,
		"ratelimit.cleanup_interval": 5 * time.Minute,
		"ratelimit.redis_addr":       "localhost:6379",
		"ratelimit.redis_db":         0,

		// Planning - cost model
		"planning.price_per_meter.aerial":         500.0,
		"planning.price_per_meter.semi_aerial":    750.0,
		"planning.price_per_meter.duct":           900.0,
		"planning.duration_per_meter.aerial":      2.0,
		"planning.duration_per_meter.semi_aerial": 4.0,
		"planning.duration_per_meter.duct":        5.0,
		"planning.daily_wage":                     300.0,
		"planning.shift_hours":                    8.0,
		"planning.max_workers_per_infra":          4,

		// Planning - budget phasing
		"planning.total_budget":           1_000_000.0,
		"planning.phase_budget_fractions": []float64{0.40, 0.20, 0.20, 0.20},

		// Planning - critical loads
		"planning.generator_autonomy_hours": 20.0,
		"planning.safety_margin":            0.8,

		// Planning - topology
		"planning.max_connect_distance":      100.0,
		"planning.damaged_weight_multiplier": 10.0,

		// Planning - ranking weights
		"planning.scoring.population": 0.4,
		"planning.scoring.cost":       0.3,
		"planning.scoring.urgency":    0.2,
		"planning.scoring.distance":   0.1,

		// Planning - combined ordering coefficients
		"planning.combined.alpha": 0.4,
		"planning.combined.beta":  0.3,
		"planning.combined.gamma": 0.2,
		"planning.combined.delta": 0.1,

		// Planning - building type priority weights
		"planning.priority_weights.hospital":    1.0,
		"planning.priority_weights.school":      0.8,
		"planning.priority_weights.residential": 0.6,
		"planning.priority_weights.commercial":  0.4,
	}

	return l.k.Load(confmap.Provider(defaults, "."), nil)
}

// loadConfigFile reads the yaml configuration file.
func (l *Loader) loadConfigFile() error {
	if configPath := os.Getenv(configEnvVar); configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return l.k.Load(file.Provider(configPath), yaml.Parser())
		}
	}

	for _, path := range l.configPaths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}

		if _, err := os.Stat(absPath); err == nil {
			return l.k.Load(file.Provider(absPath), yaml.Parser())
		}
	}

	return fmt.Errorf("config file not found in paths: %v", l.configPaths)
}

// loadEnv reads overrides from environment variables. Keys with
// underscores in their names need explicit mapping.
func (l *Loader) loadEnv() error {
	return l.k.Load(env.ProviderWithValue(l.envPrefix, ".", func(envKey string, value string) (string, interface{}) {
		key := strings.ToLower(strings.TrimPrefix(envKey, l.envPrefix))

		if mappedKey, ok := envKeyMappings[key]; ok {
			key = mappedKey
		} else {
			key = strings.ReplaceAll(key, "_", ".")
		}

		if isSliceField(key) {
			return key, splitAndTrim(value)
		}

		return key, value
	}), nil)
}

// envKeyMappings maps environment variable names to config keys for
// fields whose names contain underscores.
var envKeyMappings = map[string]string{
	// HTTP
	"http_port":             "http.port",
	"http_read_timeout":     "http.read_timeout",
	"http_write_timeout":    "http.write_timeout",
	"http_shutdown_timeout": "http.shutdown_timeout",

	// Database
	"database_enabled":            "database.enabled",
	"database_host":               "database.host",
	"database_port":               "database.port",
	"database_database":           "database.database",
	"database_username":           "database.username",
	"database_password":           "database.password",
	"database_ssl_mode":           "database.ssl_mode",
	"database_max_open_conns":     "database.max_open_conns",
	"database_max_idle_conns":     "database.max_idle_conns",
	"database_conn_max_lifetime":  "database.conn_max_lifetime",
	"database_conn_max_idle_time": "database.conn_max_idle_time",
	"database_auto_migrate":       "database.auto_migrate",

	// Cache
	"cache_enabled":     "cache.enabled",
	"cache_driver":      "cache.driver",
	"cache_host":        "cache.host",
	"cache_port":        "cache.port",
	"cache_password":    "cache.password",
	"cache_db":          "cache.db",
	"cache_default_ttl": "cache.default_ttl",
	"cache_max_entries": "cache.max_entries",

	// Log
	"log_level":       "log.level",
	"log_format":      "log.format",
	"log_output":      "log.output",
	"log_file_path":   "log.file_path",
	"log_max_size":    "log.max_size",
	"log_max_backups": "log.max_backups",
	"log_max_age":     "log.max_age",
	"log_compress":    "log.compress",

	// Metrics
	"metrics_enabled":   "metrics.enabled",
	"metrics_path":      "metrics.path",
	"metrics_namespace": "metrics.namespace",
	"metrics_subsystem": "metrics.subsystem",

	// Tracing
	"tracing_enabled":      "tracing.enabled",
	"tracing_endpoint":     "tracing.endpoint",
	"tracing_service_name": "tracing.service_name",
	"tracing_sample_rate":  "tracing.sample_rate",

	// Rate limiting
	"ratelimit_enabled":          "ratelimit.enabled",
	"ratelimit_requests":         "ratelimit.requests",
	"ratelimit_window":           "ratelimit.window",
	"ratelimit_strategy":         "ratelimit.strategy",
	"ratelimit_backend":          "ratelimit.backend",
	"ratelimit_burst_size":       "ratelimit.burst_size",
	"ratelimit_cleanup_interval": "ratelimit.cleanup_interval",
	"ratelimit_redis_addr":       "ratelimit.redis_addr",
	"ratelimit_redis_password":   "ratelimit.redis_password",
	"ratelimit_redis_db":         "ratelimit.redis_db",

	// Planning
	"planning_daily_wage":                      "planning.daily_wage",
	"planning_shift_hours":                     "planning.shift_hours",
	"planning_max_workers_per_infra":           "planning.max_workers_per_infra",
	"planning_total_budget":                    "planning.total_budget",
	"planning_phase_budget_fractions":          "planning.phase_budget_fractions",
	"planning_generator_autonomy_hours":        "planning.generator_autonomy_hours",
	"planning_safety_margin":                   "planning.safety_margin",
	"planning_max_connect_distance":            "planning.max_connect_distance",
	"planning_damaged_weight_multiplier":       "planning.damaged_weight_multiplier",
	"planning_price_per_meter_aerial":          "planning.price_per_meter.aerial",
	"planning_price_per_meter_semi_aerial":     "planning.price_per_meter.semi_aerial",
	"planning_price_per_meter_duct":            "planning.price_per_meter.duct",
	"planning_duration_per_meter_aerial":       "planning.duration_per_meter.aerial",
	"planning_duration_per_meter_semi_aerial":  "planning.duration_per_meter.semi_aerial",
	"planning_duration_per_meter_duct":         "planning.duration_per_meter.duct",
	"planning_scoring_population":              "planning.scoring.population",
	"planning_scoring_cost":                    "planning.scoring.cost",
	"planning_scoring_urgency":                 "planning.scoring.urgency",
	"planning_scoring_distance":                "planning.scoring.distance",
	"planning_combined_alpha":                  "planning.combined.alpha",
	"planning_combined_beta":                   "planning.combined.beta",
	"planning_combined_gamma":                  "planning.combined.gamma",
	"planning_combined_delta":                  "planning.combined.delta",
	"planning_priority_weights_hospital":       "planning.priority_weights.hospital",
	"planning_priority_weights_school":         "planning.priority_weights.school",
	"planning_priority_weights_residential":    "planning.priority_weights.residential",
	"planning_priority_weights_commercial":     "planning.priority_weights.commercial",
}

// sliceFields are keys whose env values are comma-separated lists.
var sliceFields = map[string]bool{
	"planning.phase_budget_fractions": true,
}

func isSliceField(key string) bool {
	return sliceFields[key]
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
