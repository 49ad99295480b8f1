package recommend

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/baigao417/meal-planner-assistant/internal/candidates"
	"github.com/baigao417/meal-planner-assistant/internal/logging"
	"github.com/baigao417/meal-planner-assistant/internal/metrics"
	"github.com/baigao417/meal-planner-assistant/internal/nutrition"
	"github.com/baigao417/meal-planner-assistant/internal/ranking"
	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// FindBestGroupMeal recommends one shared meal for weighted participants.
//
// Candidates are generated for the weighted average eater. Each participant's
// preferences are fetched concurrently and every sub-score is averaged with the
// normalized participant weights.
func (e *Engine) FindBestGroupMeal(ctx context.Context, participants []types.GroupParticipant, dishes []types.Dish) (Result, error) {
	start := time.Now()
	log := logging.Ctx(ctx).With().Str("mode", modeGroup).Int("participants", len(participants)).Logger()

	if err := validateCatalog(dishes); err != nil {
		metrics.RecordRecommendation(modeGroup, metrics.OutcomeError, 0, 0)
		return Result{}, err
	}

	result := Result{Threshold: e.Threshold()}
	members, ok := groupMembers(participants)
	if len(dishes) == 0 || !ok {
		result.Reason = ReasonNoCandidates
		e.record(modeGroup, result)
		return result, nil
	}

	avgTarget, avgBudget, err := ranking.AverageTarget(members)
	if err != nil {
		result.Reason = ReasonNoCandidates
		e.record(modeGroup, result)
		return result, nil
	}

	pool := e.generator.Generate(candidates.NewRand(e.seed), dishes, avgTarget, avgBudget)
	result.PoolSize = len(pool)
	log.Debug().Int("pool_size", len(pool)).Msg("generated group meal candidates")
	if len(pool) == 0 {
		result.Reason = ReasonNoCandidates
		e.record(modeGroup, result)
		return result, nil
	}

	prefs := make([][]float64, len(participants))
	degraded := make([]bool, len(participants))
	g, gctx := errgroup.WithContext(ctx)
	for i := range participants {
		g.Go(func() error {
			res := e.preferences.Resolve(gctx, pool, participants[i].User)
			prefs[i] = res.Scores
			degraded[i] = res.Degraded
			return nil
		})
	}
	_ = g.Wait() // Resolve never fails
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	scored, err := e.groupScorer.Score(pool, members, prefs)
	if err != nil {
		return Result{}, &Error{Kind: ErrInvalidConfig, Message: "group scoring", Cause: err}
	}

	best, ok := e.selectBest(scored, &result)
	if !ok {
		e.record(modeGroup, result)
		log.Info().Float64("best_score", result.BestScore).Msg("no group meal reached the satisfaction threshold")
		return result, nil
	}

	text, fallback := e.reasoning.Group(ctx, best, participants)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	anyDegraded := false
	for _, d := range degraded {
		anyDegraded = anyDegraded || d
	}

	result.Recommendation = &types.MealRecommendation{
		ScoredCandidate:    best,
		Reasoning:          text,
		TargetMacros:       avgTarget,
		PreferenceFallback: anyDegraded,
		ReasoningFallback:  fallback,
	}
	e.record(modeGroup, result)
	log.Info().
		Float64("score", best.SatisfactionScore).
		Dur("elapsed", time.Since(start)).
		Msg("group meal recommended")
	return result, nil
}

// groupMembers converts participants for the group scorer. It reports false
// when the group is empty or any participant's weight, budget or body weight
// is not a positive finite number.
func groupMembers(participants []types.GroupParticipant) ([]ranking.Member, bool) {
	if len(participants) == 0 {
		return nil, false
	}
	members := make([]ranking.Member, len(participants))
	for i, p := range participants {
		if !positiveFinite(p.Weight) || !positiveFinite(p.User.Budget) || !positiveFinite(p.User.WeightKg) {
			return nil, false
		}
		members[i] = ranking.Member{
			Target: nutrition.TargetMacros(p.User),
			Budget: p.User.Budget,
			Weight: p.Weight,
		}
	}
	return members, true
}
