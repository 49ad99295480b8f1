package ranking

import "github.com/baigao417/meal-planner-assistant/internal/types"

// Advisory deviation thresholds relative to target.
const (
	proteinTolerance = 0.20
	carbsTolerance   = 0.20
	fatTolerance     = 0.25
)

// Warning messages
const (
	WarnProteinLow = "Protein is low"
	WarnCarbsHigh  = "Carbs are high"
	WarnCarbsLow   = "Carbs are low"
	WarnFatHigh    = "Fat is high"
)

// Warnings flags macro deviations. Warnings are advisory and do not affect the score.
// There is no low-fat or high-protein warning.
func Warnings(actual, target types.Macros) []string {
	warnings := make([]string, 0, 3)

	if actual.Protein < target.Protein*(1-proteinTolerance) {
		warnings = append(warnings, WarnProteinLow)
	}
	if actual.Carbs > target.Carbs*(1+carbsTolerance) {
		warnings = append(warnings, WarnCarbsHigh)
	}
	if actual.Carbs < target.Carbs*(1-carbsTolerance) {
		warnings = append(warnings, WarnCarbsLow)
	}
	if actual.Fat > target.Fat*(1+fatTolerance) {
		warnings = append(warnings, WarnFatHigh)
	}

	return warnings
}
