// Package recommend runs the full recommendation flow: targets, candidate
// generation, preference scoring, ranking, selection and reasoning.
package recommend

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/baigao417/meal-planner-assistant/internal/candidates"
	"github.com/baigao417/meal-planner-assistant/internal/logging"
	"github.com/baigao417/meal-planner-assistant/internal/metrics"
	"github.com/baigao417/meal-planner-assistant/internal/nutrition"
	"github.com/baigao417/meal-planner-assistant/internal/oracle"
	"github.com/baigao417/meal-planner-assistant/internal/ranking"
	"github.com/baigao417/meal-planner-assistant/internal/selection"
	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// maxAlternatives caps Result.Alternatives.
const maxAlternatives = 5

// Metric mode labels
const (
	modeSingle = "single"
	modeGroup  = "group"
)

// Config holds the tunable parts of the engine.
type Config struct {
	Weights         ranking.Weights
	MinSatisfaction float64
	Generator       candidates.Generator
	// Seed fixes candidate generation for reproducible runs. Zero seeds from the clock per request.
	Seed uint64
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		Weights:         ranking.DefaultWeights(),
		MinSatisfaction: selection.DefaultMinSatisfaction,
		Generator:       candidates.Default(),
	}
}

// Engine answers single-user and group recommendation requests.
// It is safe for concurrent use; each request gets its own random source.
type Engine struct {
	generator   candidates.Generator
	scorer      *ranking.Scorer
	groupScorer *ranking.GroupScorer
	selector    selection.Selector
	preferences *oracle.Resilient
	reasoning   *oracle.ReasoningWithFallback
	seed        uint64
}

// New validates cfg and builds an Engine. reasoning may be nil, in which case
// the fixed fallback sentences are always used.
func New(cfg Config, preferences *oracle.Resilient, reasoning *oracle.ReasoningWithFallback) (*Engine, error) {
	scorer, err := ranking.NewScorer(cfg.Weights)
	if err != nil {
		return nil, &Error{Kind: ErrInvalidConfig, Message: "scoring weights", Cause: err}
	}
	groupScorer, err := ranking.NewGroupScorer(cfg.Weights)
	if err != nil {
		return nil, &Error{Kind: ErrInvalidConfig, Message: "scoring weights", Cause: err}
	}
	selector := selection.Selector{MinSatisfaction: cfg.MinSatisfaction}
	if err := selector.Validate(); err != nil {
		return nil, &Error{Kind: ErrInvalidConfig, Message: "selector", Cause: err}
	}
	if err := cfg.Generator.Validate(); err != nil {
		return nil, &Error{Kind: ErrInvalidConfig, Message: "generator", Cause: err}
	}
	if preferences == nil {
		return nil, &Error{Kind: ErrInvalidConfig, Message: "preference oracle is required"}
	}
	if reasoning == nil {
		reasoning = oracle.NewReasoningWithFallback(nil, 0, oracle.DefaultBreakerConfig("reasoning"))
	}

	return &Engine{
		generator:   cfg.Generator,
		scorer:      scorer,
		groupScorer: groupScorer,
		selector:    selector,
		preferences: preferences,
		reasoning:   reasoning,
		seed:        cfg.Seed,
	}, nil
}

// Threshold returns the minimum satisfaction score a recommendation must reach.
func (e *Engine) Threshold() float64 {
	return e.selector.MinSatisfaction
}

// FindBestMeal recommends one meal for profile from dishes.
//
// An empty catalog or a budget or body weight that is not a positive finite number yields a Result with
// ReasonNoCandidates. Errors are returned only for corrupt dish data and for
// context cancellation.
func (e *Engine) FindBestMeal(ctx context.Context, profile types.UserProfile, dishes []types.Dish) (Result, error) {
	start := time.Now()
	log := logging.Ctx(ctx).With().Str("mode", modeSingle).Str("profile", profile.ID).Logger()

	if err := validateCatalog(dishes); err != nil {
		metrics.RecordRecommendation(modeSingle, metrics.OutcomeError, 0, 0)
		return Result{}, err
	}

	result := Result{Threshold: e.Threshold()}
	if len(dishes) == 0 || !positiveFinite(profile.Budget) || !positiveFinite(profile.WeightKg) {
		result.Reason = ReasonNoCandidates
		e.record(modeSingle, result)
		return result, nil
	}

	target := nutrition.TargetMacros(profile)
	pool := e.generator.Generate(candidates.NewRand(e.seed), dishes, target, profile.Budget)
	result.PoolSize = len(pool)
	log.Debug().Int("pool_size", len(pool)).Msg("generated meal candidates")
	if len(pool) == 0 {
		result.Reason = ReasonNoCandidates
		e.record(modeSingle, result)
		return result, nil
	}

	prefs := e.preferences.Resolve(ctx, pool, profile)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	scored, err := e.scorer.Score(pool, target, profile.Budget, prefs.Scores)
	if err != nil {
		return Result{}, &Error{Kind: ErrInvalidConfig, Message: "scoring", Cause: err}
	}

	best, ok := e.selectBest(scored, &result)
	if !ok {
		e.record(modeSingle, result)
		log.Info().Float64("best_score", result.BestScore).Msg("no meal reached the satisfaction threshold")
		return result, nil
	}

	text, fallback := e.reasoning.Meal(ctx, best, profile)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	result.Recommendation = &types.MealRecommendation{
		ScoredCandidate:    best,
		Reasoning:          text,
		TargetMacros:       target,
		PreferenceFallback: prefs.Degraded,
		ReasoningFallback:  fallback,
	}
	e.record(modeSingle, result)
	log.Info().
		Float64("score", best.SatisfactionScore).
		Int("dishes", best.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("meal recommended")
	return result, nil
}

// selectBest fills the selection fields of result and returns the winner.
func (e *Engine) selectBest(scored []types.ScoredCandidate, result *Result) (types.ScoredCandidate, bool) {
	ranked := selection.Rank(scored)
	if len(ranked) > 0 {
		result.BestScore = ranked[0].SatisfactionScore
	}

	best, ok := e.selector.SelectBest(scored)
	if !ok {
		result.Reason = ReasonBelowThreshold
		return types.ScoredCandidate{}, false
	}

	qualifying := e.selector.Qualifying(scored)
	if len(qualifying) > 1 {
		alternatives := qualifying[1:]
		if len(alternatives) > maxAlternatives {
			alternatives = alternatives[:maxAlternatives]
		}
		result.Alternatives = alternatives
	}
	return best, true
}

func (e *Engine) record(mode string, result Result) {
	outcome := metrics.OutcomeRecommended
	score := 0.0
	switch result.Reason {
	case ReasonNoCandidates:
		outcome = metrics.OutcomeNoCandidates
	case ReasonBelowThreshold:
		outcome = metrics.OutcomeBelowThreshold
	default:
		score = result.Recommendation.SatisfactionScore
	}
	metrics.RecordRecommendation(mode, outcome, result.PoolSize, score)
}

// validateCatalog rejects dishes that break catalog invariants.
func validateCatalog(dishes []types.Dish) error {
	for i := range dishes {
		if err := dishes[i].Validate(); err != nil {
			return &Error{
				Kind:    ErrCorruptCatalog,
				Message: fmt.Sprintf("dish %d (%q)", i, dishes[i].Name),
				Cause:   err,
			}
		}
	}
	return nil
}

// positiveFinite reports whether v is a usable budget, body weight or group weight.
func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
