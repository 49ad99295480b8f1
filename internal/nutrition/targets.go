// Package nutrition derives daily macronutrient targets from a user profile.
package nutrition

import "github.com/baigao417/meal-planner-assistant/internal/types"

// Energy density in kcal per gram.
const (
	kcalPerGramProtein = 4.0
	kcalPerGramCarbs   = 4.0
	kcalPerGramFat     = 9.0
)

// coefficients maps each diet goal to grams of protein/carbs/fat per kg of body weight per day.
// This is the single source of truth for valid diet goals.
var coefficients = map[types.DietGoal]types.Macros{
	types.GoalMuscleGain:  {Protein: 1.8, Carbs: 3.5, Fat: 1.2},
	types.GoalFatLoss:     {Protein: 2.0, Carbs: 2.0, Fat: 1.0},
	types.GoalMaintenance: {Protein: 1.5, Carbs: 4.0, Fat: 1.0},
}

// Coefficients returns the per-kg coefficient triple for a diet goal.
// Unknown goals use the maintenance coefficients.
func Coefficients(goal types.DietGoal) types.Macros {
	if c, ok := coefficients[goal]; ok {
		return c
	}
	return coefficients[types.GoalMaintenance]
}

// TargetMacros returns the daily macro target for a profile: coefficient x body weight.
// The weight is assumed to be validated by the caller; no clamping is applied.
func TargetMacros(profile types.UserProfile) types.Macros {
	return Coefficients(profile.DietGoal).Scale(profile.WeightKg)
}

// Calories returns the energy content of m in kcal.
func Calories(m types.Macros) float64 {
	return m.Protein*kcalPerGramProtein + m.Carbs*kcalPerGramCarbs + m.Fat*kcalPerGramFat
}
