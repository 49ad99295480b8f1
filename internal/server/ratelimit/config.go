package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Per-minute limits for the two endpoint tiers.
const (
	DefaultModelLimit = 30
	DefaultWriteLimit = 100
)

// LoadConfig loads rate limiting configuration from environment variables:
//
//	RATE_LIMIT_ENABLED           default true
//	RATE_LIMIT_DEFAULT_LIMIT     requests per window for unlisted endpoints, default 1000
//	RATE_LIMIT_DEFAULT_WINDOW    default 1m
//	RATE_LIMIT_MODEL_LIMIT       per-minute limit for endpoints that call the language model
//	RATE_LIMIT_CLEANUP_INTERVAL  default 5m
//	RATE_LIMIT_WHITELIST, RATE_LIMIT_BLACKLIST  comma-separated client IPs
func LoadConfig() *Config {
	if !envOr("RATE_LIMIT_ENABLED", true, strconv.ParseBool) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envOr("RATE_LIMIT_DEFAULT_LIMIT", 1000, strconv.Atoi),
		DefaultWindow:   envOr("RATE_LIMIT_DEFAULT_WINDOW", time.Minute, time.ParseDuration),
		CleanupInterval: envOr("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute, time.ParseDuration),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: EndpointConfigs(envOr("RATE_LIMIT_MODEL_LIMIT", DefaultModelLimit, strconv.Atoi)),
	}
}

// DefaultEndpointConfigs returns the endpoint limits with the default model tier.
func DefaultEndpointConfigs() []EndpointConfig {
	return EndpointConfigs(DefaultModelLimit)
}

// EndpointConfigs returns per-endpoint limits. Endpoints that call the language
// model get modelLimit requests per minute; a group request costs one model call
// per participant, so it gets two thirds of that. Menu import is limited hourly.
// Reads fall back to the default limit, and /health and /metrics are never limited.
func EndpointConfigs(modelLimit int) []EndpointConfig {
	modelBurst := max(modelLimit/6, 1)
	configs := []EndpointConfig{
		{Path: "/recommendations", Method: "POST", Limit: modelLimit, Window: time.Minute, Burst: modelBurst},
		{Path: "/recommendations/group", Method: "POST", Limit: max(modelLimit*2/3, 1), Window: time.Minute, Burst: max(modelBurst/2, 1)},
		{Path: "/dishes/estimate-macros", Method: "POST", Limit: modelLimit, Window: time.Minute, Burst: modelBurst},
		{Path: "/dishes/import", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
	}

	for _, resource := range []string{"/profiles", "/dishes"} {
		configs = append(configs,
			EndpointConfig{Path: resource, Method: "POST", Limit: DefaultWriteLimit, Window: time.Minute, Burst: 10},
			EndpointConfig{Path: resource + "/", Method: "PUT", Limit: DefaultWriteLimit, Window: time.Minute, Burst: 10},
			EndpointConfig{Path: resource + "/", Method: "DELETE", Limit: DefaultWriteLimit, Window: time.Minute, Burst: 10},
		)
	}
	return configs
}

// envOr parses the environment variable key, returning def when it is unset or malformed.
func envOr[T any](key string, def T, parse func(string) (T, error)) T {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	parsed, err := parse(value)
	if err != nil {
		return def
	}
	return parsed
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
