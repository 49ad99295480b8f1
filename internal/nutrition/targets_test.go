package nutrition

import (
	"testing"

	"github.com/baigao417/meal-planner-assistant/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestTargetMacros_ByGoal(t *testing.T) {
	tests := []struct {
		name     string
		goal     types.DietGoal
		weight   float64
		expected types.Macros
	}{
		{"maintenance 70kg", types.GoalMaintenance, 70, types.Macros{Protein: 105, Carbs: 280, Fat: 70}},
		{"muscle gain 75kg", types.GoalMuscleGain, 75, types.Macros{Protein: 135, Carbs: 262.5, Fat: 90}},
		{"fat loss 60kg", types.GoalFatLoss, 60, types.Macros{Protein: 120, Carbs: 120, Fat: 60}},
		{"unknown goal uses maintenance", types.DietGoal("keto"), 70, types.Macros{Protein: 105, Carbs: 280, Fat: 70}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TargetMacros(types.UserProfile{WeightKg: tt.weight, DietGoal: tt.goal})
			assert.InDelta(t, tt.expected.Protein, got.Protein, 1e-9)
			assert.InDelta(t, tt.expected.Carbs, got.Carbs, 1e-9)
			assert.InDelta(t, tt.expected.Fat, got.Fat, 1e-9)
		})
	}
}

func TestTargetMacros_LinearInWeight(t *testing.T) {
	for _, goal := range []types.DietGoal{types.GoalFatLoss, types.GoalMuscleGain, types.GoalMaintenance} {
		single := TargetMacros(types.UserProfile{WeightKg: 63, DietGoal: goal})
		double := TargetMacros(types.UserProfile{WeightKg: 126, DietGoal: goal})

		assert.InDelta(t, single.Protein*2, double.Protein, 1e-9, "goal %s", goal)
		assert.InDelta(t, single.Carbs*2, double.Carbs, 1e-9, "goal %s", goal)
		assert.InDelta(t, single.Fat*2, double.Fat, 1e-9, "goal %s", goal)
	}
}

func TestCalories(t *testing.T) {
	assert.InDelta(t, 4*10+4*20+9*5, Calories(types.Macros{Protein: 10, Carbs: 20, Fat: 5}), 1e-9)
	assert.Equal(t, 0.0, Calories(types.Macros{}))
}
