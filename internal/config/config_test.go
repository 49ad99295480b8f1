package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/baigao417/meal-planner-assistant/internal/llm"
	"github.com/baigao417/meal-planner-assistant/internal/ranking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))
	return tmpFile
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"weights": {"nutrition": 0.5, "preference": 0.2, "history": 0.2, "budget": 0.1},
		"min_satisfaction": 80,
		"attempts": 100,
		"same_category_skip": 0,
		"seed": 7,
		"models": {"lite": "gemini-custom-lite"},
		"offline": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.NotNil(t, cfg.Weights)
	assert.Equal(t, 0.5, cfg.Weights.Nutrition)
	assert.Equal(t, 80.0, cfg.MinSatisfaction)
	assert.Equal(t, 100, cfg.Attempts)
	require.NotNil(t, cfg.SameCategorySkip)
	assert.Equal(t, 0.0, *cfg.SameCategorySkip)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, "gemini-custom-lite", cfg.Models["lite"])
	assert.True(t, cfg.Offline)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate(t *testing.T) {
	negative := -0.1
	tooHigh := 120.0

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty", Config{}, ""},
		{"defaults", Default(), ""},
		{"bad weights", Config{Weights: &ranking.Weights{Nutrition: 0.9}}, "sum to 1.0"},
		{"threshold too high", Config{MinSatisfaction: 101}, "min_satisfaction"},
		{"negative attempts", Config{Attempts: -1}, "attempts"},
		{"skip out of range", Config{SameCategorySkip: &negative}, "same_category_skip"},
		{"failure score out of range", Config{FailureScore: &tooHigh}, "default preference"},
		{"unknown tier", Config{Models: map[string]string{"turbo": "x"}}, "unknown model tier"},
		{"bad port", Config{Port: 70000}, "port"},
		{"missing dishes file", Config{DishesFile: "/nonexistent/dishes.json"}, "dishes file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	zero := 0.0
	cfg := &Config{
		MinSatisfaction:  90,
		SameCategorySkip: &zero,
		Models:           map[string]string{"lite": "mine"},
	}
	defaults := Default()
	defaults.Models = map[string]string{"lite": "default-lite", "advanced": "default-pro"}
	defaults.DatabaseURL = "postgres://localhost/meals"

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, 90.0, merged.MinSatisfaction)
	assert.Equal(t, 0.0, *merged.SameCategorySkip)
	assert.Equal(t, 50, merged.Attempts)
	assert.Equal(t, 4, merged.MaxDishes)
	assert.Equal(t, 8080, merged.Port)
	assert.Equal(t, "postgres://localhost/meals", merged.DatabaseURL)
	assert.Equal(t, "mine", merged.Models["lite"])
	assert.Equal(t, "default-pro", merged.Models["advanced"])
	require.NotNil(t, merged.Weights)
	assert.Equal(t, ranking.DefaultWeights(), *merged.Weights)

	// Original should be unchanged
	assert.Equal(t, 0, cfg.Attempts)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := &Config{Attempts: 10}
	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, 10, merged.Attempts)
	assert.Nil(t, merged.Weights)
	assert.Empty(t, merged.DatabaseURL)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvDatabaseURL, "postgres://env/db")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "")

	cfg := Config{APIKey: "file-key", LogFormat: "console"}
	cfg.ApplyEnv()

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestEngineConfig(t *testing.T) {
	skip := 0.25
	cfg := Default()
	cfg.SameCategorySkip = &skip
	cfg.Seed = 99
	cfg.MinSatisfaction = 70

	engineCfg := cfg.EngineConfig()

	assert.Equal(t, 0.25, engineCfg.Generator.SameCategorySkip)
	assert.Equal(t, 50, engineCfg.Generator.Attempts)
	assert.Equal(t, uint64(99), engineCfg.Seed)
	assert.Equal(t, 70.0, engineCfg.MinSatisfaction)
	assert.NoError(t, engineCfg.Weights.Validate())
	assert.NoError(t, engineCfg.Generator.Validate())
}

func TestResilientConfig(t *testing.T) {
	failure := 60.0
	cfg := Default()
	cfg.OracleTimeoutSeconds = 2.5
	cfg.FailureScore = &failure
	cfg.BreakerFailureThreshold = 3

	rc := cfg.ResilientConfig()

	assert.Equal(t, 2500*time.Millisecond, rc.Timeout)
	assert.Equal(t, 60.0, rc.FailureScore)
	assert.Equal(t, 75.0, rc.MismatchScore)
	assert.Equal(t, uint32(3), rc.Breaker.FailureThreshold)
	assert.Equal(t, "preference", rc.Breaker.Name)
}

func TestLLMConfig_Overrides(t *testing.T) {
	cfg := Config{Models: map[string]string{"advanced": "gemini-custom-pro"}}

	llmCfg := cfg.LLMConfig()

	assert.Equal(t, "gemini-custom-pro", llmCfg.GetModel(llm.TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash-lite", llmCfg.GetModel(llm.TierLite))
}

func TestLoggingConfig(t *testing.T) {
	cfg := Config{LogLevel: "debug"}
	lc := cfg.LoggingConfig()
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, "json", lc.Format)
}
