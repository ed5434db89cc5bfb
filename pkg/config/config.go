// pkg/config/config.go
package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"reconnect/pkg/apperror"
)

// Config is the root configuration for the planner service.
type Config struct {
	App      AppConfig       `koanf:"app"`
	HTTP     HTTPConfig      `koanf:"http"`
	Log      LogConfig       `koanf:"log"`
	Metrics  MetricsConfig   `koanf:"metrics"`
	Tracing  TracingConfig   `koanf:"tracing"`
	Database DatabaseConfig  `koanf:"database"`
	Cache    CacheConfig     `koanf:"cache"`
	Limits   RateLimitConfig `koanf:"ratelimit"`
	Planning PlanningConfig  `koanf:"planning"`
}

// AppConfig - general application settings.
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"` // development, staging, production
	Debug       bool   `koanf:"debug"`
}

// HTTPConfig - HTTP server settings.
type HTTPConfig struct {
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LogConfig - logging settings.
type LogConfig struct {
	Level      string `koanf:"level"`       // debug, info, warn, error
	Format     string `koanf:"format"`      // json, text
	Output     string `koanf:"output"`      // stdout, stderr, file
	FilePath   string `koanf:"file_path"`   // log file path
	MaxSize    int    `koanf:"max_size"`    // MB
	MaxBackups int    `koanf:"max_backups"` // number of rotated files
	MaxAge     int    `koanf:"max_age"`     // days
	Compress   bool   `koanf:"compress"`
}

// MetricsConfig - Prometheus metrics settings.
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Path      string `koanf:"path"`
	Namespace string `koanf:"namespace"`
	Subsystem string `koanf:"subsystem"`
}

// TracingConfig - OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// DatabaseConfig - plan history storage settings.
type DatabaseConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Database        string        `koanf:"database"`
	Username        string        `koanf:"username"`
	Password        string        `koanf:"password"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

// DSN returns a postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.Username, d.Password, d.Database, d.SSLMode,
	)
}

// CacheConfig - result cache settings.
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Driver     string        `koanf:"driver"` // redis, memory
	Host       string        `koanf:"host"`
	Port       int           `koanf:"port"`
	Password   string        `koanf:"password"`
	DB         int           `koanf:"db"`
	DefaultTTL time.Duration `koanf:"default_ttl"`
	MaxEntries int           `koanf:"max_entries"` // for in-memory
}

// Address returns the cache server address.
func (c CacheConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RateLimitConfig - per-client request limiting at the HTTP boundary.
type RateLimitConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Requests        int           `koanf:"requests"`
	Window          time.Duration `koanf:"window"`
	Strategy        string        `koanf:"strategy"` // sliding_window, token_bucket
	Backend         string        `koanf:"backend"`  // memory, redis
	BurstSize       int           `koanf:"burst_size"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
	RedisAddr       string        `koanf:"redis_addr"`
	RedisPassword   string        `koanf:"redis_password"`
	RedisDB         int           `koanf:"redis_db"`
}

// PlanningConfig groups the tunables of the reconnection planning pipeline.
type PlanningConfig struct {
	// Cost model. Rates are keyed by infrastructure type name
	// (aerial, semi_aerial, duct).
	PricePerMeter    map[string]float64 `koanf:"price_per_meter"`
	DurationPerMeter map[string]float64 `koanf:"duration_per_meter"` // hours per meter
	DailyWage        float64            `koanf:"daily_wage"`         // pay per full shift
	ShiftHours       float64            `koanf:"shift_hours"`
	MaxWorkersPerInfra int              `koanf:"max_workers_per_infra"`

	// Budget phasing.
	TotalBudget          float64   `koanf:"total_budget"`
	PhaseBudgetFractions []float64 `koanf:"phase_budget_fractions"`

	// Critical-load safety window.
	GeneratorAutonomyHours float64 `koanf:"generator_autonomy_hours"`
	SafetyMargin           float64 `koanf:"safety_margin"`

	// Topology.
	MaxConnectDistance      float64 `koanf:"max_connect_distance"`
	DamagedWeightMultiplier float64 `koanf:"damaged_weight_multiplier"`

	Scoring  ScoringConfig      `koanf:"scoring"`
	Combined CombinedConfig     `koanf:"combined"`
	Priority map[string]float64 `koanf:"priority_weights"` // by building type
}

// ScoringConfig - weights of the multi-criteria ranking. Must sum to 1.
type ScoringConfig struct {
	Population float64 `koanf:"population"`
	Cost       float64 `koanf:"cost"`
	Urgency    float64 `koanf:"urgency"`
	Distance   float64 `koanf:"distance"`
}

// Sum returns the total of the four weights.
func (s ScoringConfig) Sum() float64 {
	return s.Population + s.Cost + s.Urgency + s.Distance
}

// CombinedConfig - coefficients of the combined ordering score used by
// the budget allocator.
type CombinedConfig struct {
	Alpha float64 `koanf:"alpha"` // priority weight
	Beta  float64 `koanf:"beta"`  // inverse difficulty
	Gamma float64 `koanf:"gamma"` // inverse cost
	Delta float64 `koanf:"delta"` // inverse duration
}

const weightTolerance = 1e-6

// rateKeys are the infrastructure types every rate table must cover.
var rateKeys = []string{"aerial", "semi_aerial", "duct"}

// Validate checks the whole configuration tree.
func (c *Config) Validate() error {
	var errs []string

	if c.App.Name == "" {
		errs = append(errs, "app.name is required")
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Sprintf("http.port must be between 1 and 65535, got %d", c.HTTP.Port))
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level must be one of: debug, info, warn, error, got %s", c.Log.Level))
	}

	if c.Limits.Enabled {
		if c.Limits.Requests <= 0 {
			errs = append(errs, fmt.Sprintf("ratelimit.requests must be positive, got %d", c.Limits.Requests))
		}
		if c.Limits.Window <= 0 {
			errs = append(errs, "ratelimit.window must be positive")
		}
	}

	if err := c.Planning.Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return apperror.New(apperror.CodeInvalidConfig,
			fmt.Sprintf("configuration validation failed: %s", strings.Join(errs, "; ")))
	}

	return nil
}

// Validate checks the planning tunables.
func (p *PlanningConfig) Validate() error {
	for _, key := range rateKeys {
		if _, ok := p.PricePerMeter[key]; !ok {
			return apperror.NewWithField(apperror.CodeMissingRate,
				fmt.Sprintf("price_per_meter is missing rate for %q", key), "planning.price_per_meter")
		}
		if _, ok := p.DurationPerMeter[key]; !ok {
			return apperror.NewWithField(apperror.CodeMissingRate,
				fmt.Sprintf("duration_per_meter is missing rate for %q", key), "planning.duration_per_meter")
		}
	}
	for key, v := range p.PricePerMeter {
		if v < 0 {
			return apperror.NewWithField(apperror.CodeNegativeValue,
				fmt.Sprintf("price_per_meter[%s] must be non-negative, got %v", key, v), "planning.price_per_meter")
		}
	}
	for key, v := range p.DurationPerMeter {
		if v < 0 {
			return apperror.NewWithField(apperror.CodeNegativeValue,
				fmt.Sprintf("duration_per_meter[%s] must be non-negative, got %v", key, v), "planning.duration_per_meter")
		}
	}

	if p.DailyWage < 0 {
		return apperror.NewWithField(apperror.CodeNegativeValue, "daily_wage must be non-negative", "planning.daily_wage")
	}
	if p.ShiftHours <= 0 {
		return apperror.NewWithField(apperror.CodeInvalidConfig, "shift_hours must be positive", "planning.shift_hours")
	}
	if p.MaxWorkersPerInfra < 1 {
		return apperror.NewWithField(apperror.CodeInvalidConfig, "max_workers_per_infra must be at least 1", "planning.max_workers_per_infra")
	}

	if p.TotalBudget <= 0 {
		return apperror.NewWithField(apperror.CodeInvalidBudget,
			fmt.Sprintf("total_budget must be positive, got %v", p.TotalBudget), "planning.total_budget")
	}

	if len(p.PhaseBudgetFractions) == 0 {
		return apperror.NewWithField(apperror.CodeInvalidFraction, "phase_budget_fractions must not be empty", "planning.phase_budget_fractions")
	}
	sum := 0.0
	for i, f := range p.PhaseBudgetFractions {
		if f <= 0 || f > 1 {
			return apperror.NewWithField(apperror.CodeInvalidFraction,
				fmt.Sprintf("phase_budget_fractions[%d] must be in (0, 1], got %v", i, f), "planning.phase_budget_fractions")
		}
		sum += f
	}
	if sum > 1+weightTolerance {
		return apperror.NewWithField(apperror.CodeInvalidFraction,
			fmt.Sprintf("phase_budget_fractions must sum to at most 1, got %v", sum), "planning.phase_budget_fractions")
	}

	if p.GeneratorAutonomyHours <= 0 {
		return apperror.NewWithField(apperror.CodeInvalidAutonomy,
			fmt.Sprintf("generator_autonomy_hours must be positive, got %v", p.GeneratorAutonomyHours), "planning.generator_autonomy_hours")
	}
	if p.SafetyMargin <= 0 || p.SafetyMargin > 1 {
		return apperror.NewWithField(apperror.CodeInvalidMargin,
			fmt.Sprintf("safety_margin must be in (0, 1], got %v", p.SafetyMargin), "planning.safety_margin")
	}

	if p.MaxConnectDistance <= 0 {
		return apperror.NewWithField(apperror.CodeInvalidConfig, "max_connect_distance must be positive", "planning.max_connect_distance")
	}
	if p.DamagedWeightMultiplier < 1 {
		return apperror.NewWithField(apperror.CodeInvalidConfig, "damaged_weight_multiplier must be at least 1", "planning.damaged_weight_multiplier")
	}

	if math.Abs(p.Scoring.Sum()-1.0) > weightTolerance {
		return apperror.NewWithField(apperror.CodeInvalidWeights,
			fmt.Sprintf("scoring weights must sum to 1.0, got %v", p.Scoring.Sum()), "planning.scoring")
	}
	for name, w := range map[string]float64{
		"population": p.Scoring.Population,
		"cost":       p.Scoring.Cost,
		"urgency":    p.Scoring.Urgency,
		"distance":   p.Scoring.Distance,
	} {
		if w < 0 {
			return apperror.NewWithField(apperror.CodeInvalidWeights,
				fmt.Sprintf("scoring weight %s must be non-negative, got %v", name, w), "planning.scoring."+name)
		}
	}

	for name, coef := range map[string]float64{
		"alpha": p.Combined.Alpha,
		"beta":  p.Combined.Beta,
		"gamma": p.Combined.Gamma,
		"delta": p.Combined.Delta,
	} {
		if coef < 0 {
			return apperror.NewWithField(apperror.CodeNegativeCoefficient,
				fmt.Sprintf("combined coefficient %s must be non-negative, got %v", name, coef), "planning.combined."+name)
		}
	}

	for name, w := range p.Priority {
		if w < 0 || w > 1 {
			return apperror.NewWithField(apperror.CodeInvalidConfig,
				fmt.Sprintf("priority_weights[%s] must be in [0, 1], got %v", name, w), "planning.priority_weights")
		}
	}

	return nil
}

// PhaseCount returns the number of budget phases.
func (p *PlanningConfig) PhaseCount() int {
	return len(p.PhaseBudgetFractions)
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "dev"
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production" || c.App.Environment == "prod"
}
