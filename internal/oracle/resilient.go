package oracle

import (
	"context"
	"errors"
	"math"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/baigao417/meal-planner-assistant/internal/logging"
	"github.com/baigao417/meal-planner-assistant/internal/metrics"
	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// Degradation reasons
const (
	ReasonError       = "error"
	ReasonTimeout     = "timeout"
	ReasonCircuitOpen = "circuit_open"
	ReasonMismatch    = "count_mismatch"
)

const preferenceOracle = "preference"

// PreferenceResult is the outcome of a guarded preference call.
type PreferenceResult struct {
	// Scores has one entry per meal, each within [0, 100].
	Scores []float64
	// Degraded is true when defaults replaced the oracle's answer.
	Degraded bool
	Reason   string
}

// ResilientConfig configures Resilient.
type ResilientConfig struct {
	Timeout       time.Duration
	FailureScore  float64
	MismatchScore float64
	Breaker       BreakerConfig
}

// DefaultResilientConfig returns the defaults: 10s timeout, 70 on failure, 75 on mismatch.
func DefaultResilientConfig() ResilientConfig {
	return ResilientConfig{
		Timeout:       10 * time.Second,
		FailureScore:  DefaultFailureScore,
		MismatchScore: DefaultMismatchScore,
		Breaker:       DefaultBreakerConfig(preferenceOracle),
	}
}

// Resilient guards a PreferenceScorer so that preference scoring always yields
// exactly one in-range score per meal.
type Resilient struct {
	scorer  PreferenceScorer
	cfg     ResilientConfig
	breaker *gobreaker.CircuitBreaker[[]float64]
}

// NewResilient wraps scorer.
func NewResilient(scorer PreferenceScorer, cfg ResilientConfig) *Resilient {
	return &Resilient{
		scorer:  scorer,
		cfg:     cfg,
		breaker: NewCircuitBreaker[[]float64](cfg.Breaker),
	}
}

// Resolve scores meals. It makes at most one call to the wrapped scorer and never fails.
func (r *Resilient) Resolve(ctx context.Context, meals []types.MealCandidate, profile types.UserProfile) PreferenceResult {
	if len(meals) == 0 {
		return PreferenceResult{Scores: []float64{}}
	}

	callCtx := ctx
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	scores, err := r.breaker.Execute(func() ([]float64, error) {
		return r.scorer.ScorePreferences(callCtx, meals, profile)
	})

	if err != nil {
		reason := ReasonError
		switch {
		case isBreakerRejection(err):
			reason = ReasonCircuitOpen
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded):
			reason = ReasonTimeout
		}
		metrics.RecordOracleCall(preferenceOracle, reason, time.Since(start))
		return r.degrade(ctx, len(meals), r.cfg.FailureScore, reason, err)
	}

	if len(scores) != len(meals) {
		metrics.RecordOracleCall(preferenceOracle, ReasonMismatch, time.Since(start))
		logging.Ctx(ctx).Debug().
			Int("expected", len(meals)).
			Int("got", len(scores)).
			Msg("preference oracle returned wrong number of scores")
		return r.degrade(ctx, len(meals), r.cfg.MismatchScore, ReasonMismatch, nil)
	}

	metrics.RecordOracleCall(preferenceOracle, "ok", time.Since(start))
	clamped := make([]float64, len(scores))
	for i, s := range scores {
		clamped[i] = clampScore(s)
	}
	return PreferenceResult{Scores: clamped}
}

// ScorePreferences makes Resilient usable wherever a PreferenceScorer is expected. It never returns an error.
func (r *Resilient) ScorePreferences(ctx context.Context, meals []types.MealCandidate, profile types.UserProfile) ([]float64, error) {
	return r.Resolve(ctx, meals, profile).Scores, nil
}

func (r *Resilient) degrade(ctx context.Context, n int, score float64, reason string, cause error) PreferenceResult {
	metrics.RecordOracleFallback(preferenceOracle, reason)
	logging.Ctx(ctx).Warn().
		Err(cause).
		Str("reason", reason).
		Float64("default_score", score).
		Int("meals", n).
		Msg("preference oracle degraded, using default scores")

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = clampScore(score)
	}
	return PreferenceResult{Scores: scores, Degraded: true, Reason: reason}
}

func clampScore(s float64) float64 {
	if math.IsNaN(s) {
		return 0
	}
	return math.Max(0, math.Min(100, s))
}
