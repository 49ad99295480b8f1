package oracle

import (
	"context"
	"fmt"

	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// Static scores every meal the same. It backs offline runs and tests.
type Static struct {
	Score float64
}

// ScorePreferences returns s.Score for every meal.
func (s Static) ScorePreferences(_ context.Context, meals []types.MealCandidate, _ types.UserProfile) ([]float64, error) {
	scores := make([]float64, len(meals))
	for i := range scores {
		scores[i] = s.Score
	}
	return scores, nil
}

// StaticReasoning summarizes the meal from its numbers without calling a model.
type StaticReasoning struct{}

// MealReasoning describes the meal's macros against the profile's goal.
func (StaticReasoning) MealReasoning(_ context.Context, meal types.ScoredCandidate, profile types.UserProfile) (string, error) {
	return fmt.Sprintf("A %s meal with %.0fg protein, %.0fg carbs and %.0fg fat for %.2f, scoring %.1f overall.",
		profile.DietGoal, meal.Macros.Protein, meal.Macros.Carbs, meal.Macros.Fat, meal.TotalPrice, meal.SatisfactionScore), nil
}

// GroupReasoning describes the shared meal for the group.
func (StaticReasoning) GroupReasoning(_ context.Context, meal types.ScoredCandidate, participants []types.GroupParticipant) (string, error) {
	return fmt.Sprintf("A shared meal for %d people costing %.2f, scoring %.1f for the group.",
		len(participants), meal.TotalPrice, meal.SatisfactionScore), nil
}
