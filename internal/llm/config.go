// Package llm provides centralized LLM configuration and client abstractions
// used by the meal preference, reasoning, macro estimation and menu parsing oracles.
package llm

import "maps"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for batched scoring and short text: preference scores, reasoning sentences
	TierLite ModelTier = "lite"
	// TierStandard is for structured extraction: macro estimates, menu parsing
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long or messy menu pages
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider, the only one currently supported.
const ProviderGemini Provider = "gemini"

const (
	defaultTextTemperature = 0.6
	defaultJSONTemperature = 0.1
	defaultMaxOutputTokens = 1024

	defaultSystemInstruction = "You are a nutritionist helping people choose meals from canteen and restaurant menus. " +
		"Be concrete about dishes and macros, and answer in the format the request asks for."
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider             `json:"provider"`
	Models   map[ModelTier]string `json:"models"`
	// TextTemperature applies to free-text generation such as reasoning sentences.
	TextTemperature float32 `json:"text_temperature"`
	// JSONTemperature applies to structured output; keep it low for stable scores.
	JSONTemperature float32 `json:"json_temperature"`
	MaxOutputTokens int32   `json:"max_output_tokens"`
	// SystemInstruction is sent with every request.
	SystemInstruction string `json:"system_instruction"`
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		TextTemperature:   defaultTextTemperature,
		JSONTemperature:   defaultJSONTemperature,
		MaxOutputTokens:   defaultMaxOutputTokens,
		SystemInstruction: defaultSystemInstruction,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithOverrides returns a copy of c with non-empty per-tier model names replaced.
func (c *Config) WithOverrides(models map[ModelTier]string) *Config {
	newConfig := c.clone()
	for tier, model := range models {
		if model != "" {
			newConfig.Models[tier] = model
		}
	}
	return newConfig
}

func (c *Config) clone() *Config {
	newConfig := *c
	newConfig.Models = maps.Clone(c.Models)
	if newConfig.Models == nil {
		newConfig.Models = make(map[ModelTier]string)
	}
	return &newConfig
}
