// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/baigao417/meal-planner-assistant/internal/candidates"
	"github.com/baigao417/meal-planner-assistant/internal/llm"
	"github.com/baigao417/meal-planner-assistant/internal/logging"
	"github.com/baigao417/meal-planner-assistant/internal/oracle"
	"github.com/baigao417/meal-planner-assistant/internal/ranking"
	"github.com/baigao417/meal-planner-assistant/internal/recommend"
	"github.com/baigao417/meal-planner-assistant/internal/selection"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvDatabaseURL = "DATABASE_URL"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogFormat   = "LOG_FORMAT"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Scoring
	Weights         *ranking.Weights `json:"weights,omitempty"`          // Sub-score weights, must sum to 1
	MinSatisfaction float64          `json:"min_satisfaction,omitempty"` // Recommendation threshold (0-100)

	// Candidate generation
	Attempts         int      `json:"attempts,omitempty"`           // Randomized restarts per request
	MaxDishes        int      `json:"max_dishes,omitempty"`         // Dishes per meal cap
	BudgetCeiling    float64  `json:"budget_ceiling,omitempty"`     // Soft price ceiling as a budget multiple
	ProteinCeiling   float64  `json:"protein_ceiling,omitempty"`    // Soft protein ceiling as a target multiple
	SameCategorySkip *float64 `json:"same_category_skip,omitempty"` // Probability of skipping a repeated category
	Seed             uint64   `json:"seed,omitempty"`               // Fixed seed for reproducible runs

	// Oracles
	OracleTimeoutSeconds    float64           `json:"oracle_timeout_seconds,omitempty"`
	FailureScore            *float64          `json:"failure_score,omitempty"`  // Default preference on oracle failure
	MismatchScore           *float64          `json:"mismatch_score,omitempty"` // Default preference on wrong score count
	BreakerFailureThreshold uint32            `json:"breaker_failure_threshold,omitempty"`
	BreakerOpenSeconds      float64           `json:"breaker_open_seconds,omitempty"`
	Models                  map[string]string `json:"models,omitempty"`  // Model overrides keyed by tier: lite, standard, advanced
	Offline                 bool              `json:"offline,omitempty"` // Skip the LLM entirely

	// Services
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Port        int    `json:"port,omitempty"`         // HTTP server port
	UseBrowser  bool   `json:"use_browser,omitempty"`  // Use headless browser for SPA menu pages
	DishesFile  string `json:"dishes_file,omitempty"`  // Catalog JSON used when no database is configured

	// Logging
	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"`
}

// Default returns the reference configuration.
func Default() Config {
	weights := ranking.DefaultWeights()
	skip := candidates.DefaultSameCategorySkip
	failure := oracle.DefaultFailureScore
	mismatch := oracle.DefaultMismatchScore
	breaker := oracle.DefaultBreakerConfig("preference")

	return Config{
		Weights:                 &weights,
		MinSatisfaction:         selection.DefaultMinSatisfaction,
		Attempts:                candidates.DefaultAttempts,
		MaxDishes:               candidates.DefaultMaxDishes,
		BudgetCeiling:           candidates.DefaultBudgetCeiling,
		ProteinCeiling:          candidates.DefaultProteinCeiling,
		SameCategorySkip:        &skip,
		OracleTimeoutSeconds:    oracle.DefaultResilientConfig().Timeout.Seconds(),
		FailureScore:            &failure,
		MismatchScore:           &mismatch,
		BreakerFailureThreshold: breaker.FailureThreshold,
		BreakerOpenSeconds:      breaker.Timeout.Seconds(),
		Port:                    8080,
		LogLevel:                "info",
		LogFormat:               "json",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides secrets, connection strings and log settings from the environment.
func (c *Config) ApplyEnv() {
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.APIKey = key
	}
	if url := os.Getenv(EnvDatabaseURL); url != "" {
		c.DatabaseURL = url
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = level
	}
	if format := os.Getenv(EnvLogFormat); format != "" {
		c.LogFormat = format
	}
}

// Validate checks that the configuration has valid values.
// Zero values are allowed since MergeWithDefaults fills them.
func (c *Config) Validate() error {
	if c.Weights != nil {
		if err := c.Weights.Validate(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	if c.MinSatisfaction < 0 || c.MinSatisfaction > 100 {
		return fmt.Errorf("config error: 'min_satisfaction' must be within [0, 100]")
	}
	if c.Attempts < 0 {
		return fmt.Errorf("config error: 'attempts' must be non-negative")
	}
	if c.MaxDishes < 0 {
		return fmt.Errorf("config error: 'max_dishes' must be non-negative")
	}
	if c.BudgetCeiling < 0 || c.ProteinCeiling < 0 {
		return fmt.Errorf("config error: ceilings must be non-negative")
	}
	if c.SameCategorySkip != nil && (*c.SameCategorySkip < 0 || *c.SameCategorySkip > 1) {
		return fmt.Errorf("config error: 'same_category_skip' must be within [0, 1]")
	}
	if c.OracleTimeoutSeconds < 0 || c.BreakerOpenSeconds < 0 {
		return fmt.Errorf("config error: timeouts must be non-negative")
	}
	for _, score := range []*float64{c.FailureScore, c.MismatchScore} {
		if score != nil && (*score < 0 || *score > 100) {
			return fmt.Errorf("config error: default preference scores must be within [0, 100]")
		}
	}
	for tier := range c.Models {
		switch llm.ModelTier(tier) {
		case llm.TierLite, llm.TierStandard, llm.TierAdvanced:
		default:
			return fmt.Errorf("config error: unknown model tier %q", tier)
		}
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be a valid TCP port")
	}
	if c.DishesFile != "" {
		if _, err := os.Stat(c.DishesFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: dishes file not found: %s", c.DishesFile)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Weights == nil {
		result.Weights = defaults.Weights
	}
	if result.SameCategorySkip == nil {
		result.SameCategorySkip = defaults.SameCategorySkip
	}
	if result.FailureScore == nil {
		result.FailureScore = defaults.FailureScore
	}
	if result.MismatchScore == nil {
		result.MismatchScore = defaults.MismatchScore
	}

	// String fields: use default if empty
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.DishesFile == "" {
		result.DishesFile = defaults.DishesFile
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	// Numeric fields: use default if zero
	if result.MinSatisfaction == 0 {
		result.MinSatisfaction = defaults.MinSatisfaction
	}
	if result.Attempts == 0 {
		result.Attempts = defaults.Attempts
	}
	if result.MaxDishes == 0 {
		result.MaxDishes = defaults.MaxDishes
	}
	if result.BudgetCeiling == 0 {
		result.BudgetCeiling = defaults.BudgetCeiling
	}
	if result.ProteinCeiling == 0 {
		result.ProteinCeiling = defaults.ProteinCeiling
	}
	if result.Seed == 0 {
		result.Seed = defaults.Seed
	}
	if result.OracleTimeoutSeconds == 0 {
		result.OracleTimeoutSeconds = defaults.OracleTimeoutSeconds
	}
	if result.BreakerFailureThreshold == 0 {
		result.BreakerFailureThreshold = defaults.BreakerFailureThreshold
	}
	if result.BreakerOpenSeconds == 0 {
		result.BreakerOpenSeconds = defaults.BreakerOpenSeconds
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Maps: defaults first, file values win
	if len(defaults.Models) > 0 {
		models := make(map[string]string, len(defaults.Models)+len(result.Models))
		for k, v := range defaults.Models {
			models[k] = v
		}
		for k, v := range result.Models {
			models[k] = v
		}
		result.Models = models
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// EngineConfig returns the recommendation engine settings.
func (c *Config) EngineConfig() recommend.Config {
	cfg := recommend.DefaultConfig()
	if c.Weights != nil {
		cfg.Weights = *c.Weights
	}
	cfg.MinSatisfaction = c.MinSatisfaction
	cfg.Generator = candidates.Generator{
		Attempts:         c.Attempts,
		MaxDishes:        c.MaxDishes,
		BudgetCeiling:    c.BudgetCeiling,
		ProteinCeiling:   c.ProteinCeiling,
		SameCategorySkip: candidates.DefaultSameCategorySkip,
	}
	if c.SameCategorySkip != nil {
		cfg.Generator.SameCategorySkip = *c.SameCategorySkip
	}
	cfg.Seed = c.Seed
	return cfg
}

// BreakerConfig returns circuit breaker settings for the named oracle.
func (c *Config) BreakerConfig(name string) oracle.BreakerConfig {
	cfg := oracle.DefaultBreakerConfig(name)
	if c.BreakerFailureThreshold > 0 {
		cfg.FailureThreshold = c.BreakerFailureThreshold
	}
	if c.BreakerOpenSeconds > 0 {
		cfg.Timeout = seconds(c.BreakerOpenSeconds)
	}
	return cfg
}

// ResilientConfig returns the preference oracle guard settings.
func (c *Config) ResilientConfig() oracle.ResilientConfig {
	cfg := oracle.DefaultResilientConfig()
	if c.OracleTimeoutSeconds > 0 {
		cfg.Timeout = seconds(c.OracleTimeoutSeconds)
	}
	if c.FailureScore != nil {
		cfg.FailureScore = *c.FailureScore
	}
	if c.MismatchScore != nil {
		cfg.MismatchScore = *c.MismatchScore
	}
	cfg.Breaker = c.BreakerConfig("preference")
	return cfg
}

// OracleTimeout returns the per-call oracle timeout.
func (c *Config) OracleTimeout() time.Duration {
	return seconds(c.OracleTimeoutSeconds)
}

// LLMConfig returns the Gemini configuration with any model overrides applied.
func (c *Config) LLMConfig() *llm.Config {
	overrides := make(map[llm.ModelTier]string, len(c.Models))
	for tier, model := range c.Models {
		overrides[llm.ModelTier(tier)] = model
	}
	return llm.DefaultConfig().WithOverrides(overrides)
}

// LoggingConfig returns the logger settings.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	if c.LogLevel != "" {
		cfg.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		cfg.Format = c.LogFormat
	}
	return cfg
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
