// Package ranking scores meal candidates against a profile's targets.
package ranking

import (
	"fmt"
	"math"

	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// Default weights for scoring components
const (
	nutritionWeight  = 0.4
	preferenceWeight = 0.3
	historyWeight    = 0.2
	budgetWeight     = 0.1
)

const (
	// nutritionErrorAmplifier makes the nutrition score drop faster than the raw relative error.
	nutritionErrorAmplifier = 1.5
	// budgetOverflowPenalty is points lost per 1% over budget divided by 100.
	budgetOverflowPenalty = 200.0
	// maxRating is the top of the dish rating scale.
	maxRating = 10.0
	// weightSumTolerance is the allowed floating point drift when checking weights.
	weightSumTolerance = 1e-9
)

// Weights controls how sub-scores combine into the satisfaction score.
type Weights struct {
	Nutrition  float64 `json:"nutrition"`
	Preference float64 `json:"preference"`
	History    float64 `json:"history"`
	Budget     float64 `json:"budget"`
}

// DefaultWeights returns the reference weights.
func DefaultWeights() Weights {
	return Weights{
		Nutrition:  nutritionWeight,
		Preference: preferenceWeight,
		History:    historyWeight,
		Budget:     budgetWeight,
	}
}

// Validate checks that every weight is non-negative and the weights sum to 1.
func (w Weights) Validate() error {
	if w.Nutrition < 0 || w.Preference < 0 || w.History < 0 || w.Budget < 0 {
		return fmt.Errorf("%w: must be non-negative: %+v", ErrInvalidWeights, w)
	}
	sum := w.Nutrition + w.Preference + w.History + w.Budget
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: must sum to 1.0, got %.6f", ErrInvalidWeights, sum)
	}
	return nil
}

// Satisfaction combines sub-scores into a single score.
func Satisfaction(s types.SubScores, w Weights) float64 {
	return s.Nutrition*w.Nutrition +
		s.Preference*w.Preference +
		s.History*w.History +
		s.Budget*w.Budget
}

// NutritionScore rates how close actual macros are to the target, 0-100.
// It is 100 only when every macro matches exactly.
func NutritionScore(actual, target types.Macros) float64 {
	totalError := (relativeDeviation(actual.Protein, target.Protein) +
		relativeDeviation(actual.Carbs, target.Carbs) +
		relativeDeviation(actual.Fat, target.Fat)) / 3

	return math.Max(0, 100*(1-totalError*nutritionErrorAmplifier))
}

// relativeDeviation returns |actual-target|/target, treating a zero target as 1.
func relativeDeviation(actual, target float64) float64 {
	denom := target
	if denom == 0 {
		denom = 1
	}
	return math.Abs(actual-target) / denom
}

// HistoryScore converts the mean dish rating to a 0-100 score. Empty meals score 0.
func HistoryScore(dishes []types.Dish) float64 {
	if len(dishes) == 0 {
		return 0
	}
	total := 0
	for _, d := range dishes {
		total += d.Rating
	}
	avg := float64(total) / float64(len(dishes))
	return avg / maxRating * 100
}

// BudgetScore is 100 within budget and drops by 2 points per percent of overflow, floored at 0.
func BudgetScore(totalPrice, budget float64) float64 {
	if totalPrice <= budget {
		return 100
	}
	overflow := (totalPrice - budget) / budget
	return math.Max(0, 100-overflow*budgetOverflowPenalty)
}

// ClampScore limits a score to [0, 100]. NaN maps to 0.
func ClampScore(score float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
