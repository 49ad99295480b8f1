package ranking

import (
	"fmt"

	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// Scorer computes sub-scores and satisfaction for candidate pools.
// Scoring is deterministic for fixed inputs.
type Scorer struct {
	Weights Weights
}

// NewScorer returns a Scorer after validating the weights.
func NewScorer(w Weights) (*Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{Weights: w}, nil
}

// ScoreCandidate scores one meal against a single target and budget.
// preference is clamped to [0, 100].
func (s *Scorer) ScoreCandidate(meal types.MealCandidate, target types.Macros, budget, preference float64) types.ScoredCandidate {
	macros := meal.Macros()
	price := meal.TotalPrice()

	sub := types.SubScores{
		Nutrition:  NutritionScore(macros, target),
		Preference: ClampScore(preference),
		History:    HistoryScore(meal.Dishes),
		Budget:     BudgetScore(price, budget),
	}

	return types.ScoredCandidate{
		MealCandidate:     meal,
		SubScores:         sub,
		SatisfactionScore: Satisfaction(sub, s.Weights),
		Macros:            macros,
		TotalPrice:        price,
		Warnings:          Warnings(macros, target),
	}
}

// Score scores every candidate in the pool. preferences must hold one score per candidate, in order.
func (s *Scorer) Score(pool []types.MealCandidate, target types.Macros, budget float64, preferences []float64) ([]types.ScoredCandidate, error) {
	if len(preferences) != len(pool) {
		return nil, fmt.Errorf("%w: got %d for %d candidates", ErrScoreCount, len(preferences), len(pool))
	}

	scored := make([]types.ScoredCandidate, len(pool))
	for i, meal := range pool {
		scored[i] = s.ScoreCandidate(meal, target, budget, preferences[i])
		scored[i].Index = i
	}
	return scored, nil
}
