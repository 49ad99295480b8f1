package oracle

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/baigao417/meal-planner-assistant/internal/logging"
	"github.com/baigao417/meal-planner-assistant/internal/metrics"
)

// BreakerConfig configures the circuit breaker guarding an oracle.
type BreakerConfig struct {
	Name string `json:"name"`
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32 `json:"failure_threshold"`
	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32 `json:"max_requests"`
	// Interval clears failure counts while closed. Zero never clears.
	Interval time.Duration `json:"interval"`
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration `json:"timeout"`
}

// DefaultBreakerConfig returns the breaker settings used by the oracles.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
	}
}

// NewCircuitBreaker creates a breaker that publishes state changes to logs and metrics.
// Caller cancellation is not counted as an oracle failure.
func NewCircuitBreaker[T any](cfg BreakerConfig) *gobreaker.CircuitBreaker[T] {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultBreakerConfig(cfg.Name).FailureThreshold
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
			logger := logging.WithComponent("oracle")
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("oracle circuit breaker state changed")
		},
	}

	return gobreaker.NewCircuitBreaker[T](settings)
}

// isBreakerRejection reports whether err came from the breaker rather than the oracle.
func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
