package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/baigao417/meal-planner-assistant/internal/types"
)

func sampleRecommendation() *types.MealRecommendation {
	dishes := []types.Dish{
		{ID: "d1", Name: "Grilled Chicken Breast Salad", Restaurant: "Healthy Eats", Price: 12.5, Protein: 40, Carbs: 10, Fat: 15},
		{ID: "d2", Name: "Brown Rice", Restaurant: "Healthy Eats", Price: 3, Protein: 5, Carbs: 45, Fat: 2},
	}
	return &types.MealRecommendation{
		ScoredCandidate: types.ScoredCandidate{
			MealCandidate:     types.NewMealCandidate(dishes...),
			SubScores:         types.SubScores{Nutrition: 72, Preference: 90, History: 100, Budget: 100},
			SatisfactionScore: 88.4,
			Macros:            types.Macros{Protein: 45, Carbs: 55, Fat: 17},
			TotalPrice:        15.5,
			Warnings:          []string{"Protein below target"},
		},
		Reasoning:          "Lean protein with a modest portion of whole grains keeps this lunch inside the fat-loss plan.",
		TargetMacros:       types.Macros{Protein: 120, Carbs: 120, Fat: 60},
		PreferenceFallback: true,
	}
}

func TestPrintRecommendation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRecommendation(sampleRecommendation(), 85)
	output := buf.String()

	assert.Contains(t, output, "RECOMMENDED MEAL")
	assert.Contains(t, output, "Brown Rice (Healthy Eats) 3.00")
	assert.Contains(t, output, "Total:        15.50")
	assert.Contains(t, output, "P 45g / C 55g / F 17g")
	assert.Contains(t, output, "88.4 (threshold 85)")
	assert.Contains(t, output, "preference scores are defaults")
	assert.Contains(t, output, "⚠ Protein below target")
	assert.Contains(t, output, "fat-loss plan.")
}

func TestPrintRecommendation_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRecommendation(nil, 85)

	assert.Empty(t, buf.String())
}

func TestPrintBox_LinesFitWidth(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	rec := sampleRecommendation()
	rec.Dishes[0].Name = strings.Repeat("麻婆豆腐", 20)
	p.PrintRecommendation(rec, 85)

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
}

func TestPrintNoResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintNoResult("below_threshold", 71.25, 85, 12)
	output := buf.String()

	assert.Contains(t, output, "NO MEAL RECOMMENDED")
	assert.Contains(t, output, "below_threshold")
	assert.Contains(t, output, "Candidates: 12")
	assert.Contains(t, output, "71.2 (threshold 85)")
}

func TestPrintNoResult_EmptyPool(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintNoResult("no_candidates", 0, 85, 0)

	assert.NotContains(t, buf.String(), "Best score")
}

func TestPrintAlternatives(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	alt := sampleRecommendation().ScoredCandidate
	alternatives := make([]types.ScoredCandidate, 7)
	for i := range alternatives {
		alternatives[i] = alt
	}

	p.PrintAlternatives(alternatives)
	output := buf.String()

	assert.Contains(t, output, "ALTERNATIVES")
	assert.Contains(t, output, "#2  88.4  15.50")
	assert.Contains(t, output, "Grilled Chicken Breast Salad, Brown Rice")
	assert.Contains(t, output, "... and 2 more")
}

func TestPrintAlternatives_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAlternatives(nil)

	assert.Empty(t, buf.String())
}

func TestPrintTargets(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTargets(types.GoalFatLoss, 60, types.Macros{Protein: 120, Carbs: 120, Fat: 60}, 1500)
	output := buf.String()

	assert.Contains(t, output, "DAILY MACRO TARGETS")
	assert.Contains(t, output, "fat-loss")
	assert.Contains(t, output, "60.0 kg")
	assert.Contains(t, output, "P 120g / C 120g / F 60g")
	assert.Contains(t, output, "1500 kcal")
}

func TestPrintImportedDishes(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintImportedDishes([]types.Dish{
		{Name: "Mapo Tofu", Price: 18, Protein: 15, Carbs: 10, Fat: 20, Category: types.CategoryProtein},
	}, 1)
	output := buf.String()

	assert.Contains(t, output, "Imported 1 dishes (1 duplicates dropped)")
	assert.Contains(t, output, "Mapo Tofu  18.00  [protein]")
	assert.Contains(t, output, "P 15g / C 10g / F 20g")
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "one two\nthree", wrap("one two three", 8))
	assert.Equal(t, "", wrap("  ", 8))
}
