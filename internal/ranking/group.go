package ranking

import (
	"fmt"

	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// Member is one participant as seen by the group scorer.
type Member struct {
	Target types.Macros
	Budget float64
	Weight float64
}

// GroupScorer generalizes Scorer to several weighted participants sharing one meal.
// Each sub-score is the weight-normalized average of the participants' own sub-scores.
type GroupScorer struct {
	Weights Weights
}

// NewGroupScorer returns a GroupScorer after validating the weights.
func NewGroupScorer(w Weights) (*GroupScorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &GroupScorer{Weights: w}, nil
}

// NormalizeWeights returns member weights divided by their sum.
func NormalizeWeights(members []Member) ([]float64, error) {
	total := 0.0
	for i, m := range members {
		if m.Weight <= 0 {
			return nil, fmt.Errorf("%w: member %d has non-positive weight %.3f", ErrInvalidGroup, i, m.Weight)
		}
		total += m.Weight
	}
	if len(members) == 0 || total <= 0 {
		return nil, fmt.Errorf("%w: no weighted members", ErrInvalidGroup)
	}

	normalized := make([]float64, len(members))
	for i, m := range members {
		normalized[i] = m.Weight / total
	}
	return normalized, nil
}

// AverageTarget returns the weighted mean target macros and budget of the group.
func AverageTarget(members []Member) (types.Macros, float64, error) {
	weights, err := NormalizeWeights(members)
	if err != nil {
		return types.Macros{}, 0, err
	}
	var target types.Macros
	budget := 0.0
	for i, m := range members {
		target = target.Add(m.Target.Scale(weights[i]))
		budget += m.Budget * weights[i]
	}
	return target, budget, nil
}

// Score scores the pool for the whole group. preferences[p][i] is member p's
// preference score for candidate i. Warnings use the weighted mean target.
func (g *GroupScorer) Score(pool []types.MealCandidate, members []Member, preferences [][]float64) ([]types.ScoredCandidate, error) {
	weights, err := NormalizeWeights(members)
	if err != nil {
		return nil, err
	}
	if len(preferences) != len(members) {
		return nil, fmt.Errorf("%w: got %d preference sets for %d members", ErrScoreCount, len(preferences), len(members))
	}
	for p, prefs := range preferences {
		if len(prefs) != len(pool) {
			return nil, fmt.Errorf("%w: member %d has %d scores for %d candidates", ErrScoreCount, p, len(prefs), len(pool))
		}
	}
	avgTarget, _, err := AverageTarget(members)
	if err != nil {
		return nil, err
	}

	scored := make([]types.ScoredCandidate, len(pool))
	for i, meal := range pool {
		macros := meal.Macros()
		price := meal.TotalPrice()
		history := HistoryScore(meal.Dishes)

		var sub types.SubScores
		for p, m := range members {
			w := weights[p]
			sub.Nutrition += w * NutritionScore(macros, m.Target)
			sub.Preference += w * ClampScore(preferences[p][i])
			sub.History += w * history
			sub.Budget += w * BudgetScore(price, m.Budget)
		}

		scored[i] = types.ScoredCandidate{
			MealCandidate:     meal,
			SubScores:         sub,
			SatisfactionScore: Satisfaction(sub, g.Weights),
			Macros:            macros,
			TotalPrice:        price,
			Warnings:          Warnings(macros, avgTarget),
			Index:             i,
		}
	}
	return scored, nil
}
