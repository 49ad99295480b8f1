package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	prompt, err := Get("meal.json", "preference-scores")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.Meals}}")
	assert.Contains(t, prompt, "{{.Count}}")
}

func TestGet_Errors(t *testing.T) {
	_, err := Get("nonexistent.json", "some-key")
	assert.ErrorContains(t, err, "failed to read prompt file")

	_, err = Get("meal.json", "nonexistent-key")
	assert.ErrorContains(t, err, "not found")
}

func TestMustGet(t *testing.T) {
	assert.Panics(t, func() { MustGet("nonexistent.json", "some-key") })
	assert.NotEmpty(t, MustGet("meal.json", "reasoning-system"))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"Dishes", "Participants"}, placeholders(MustGet("meal.json", "group-reasoning")))
	assert.Equal(t, []string{"A", "B"}, placeholders("{{.B}} {{.A}} {{.B}}"))
	assert.Empty(t, placeholders("no placeholders"))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{"fills", "Score these for {{.Name}}: {{.Meals}}", map[string]string{"Name": "Alex", "Meals": "Meal 1: [Brown Rice]"}, "Score these for Alex: Meal 1: [Brown Rice]"},
		{"no placeholders", "No placeholders here", map[string]string{"Key": "Value"}, "No placeholders here"},
		{"missing value kept", "Hello {{.Name}}", map[string]string{}, "Hello {{.Name}}"},
		{"value not re-expanded", "{{.A}} {{.B}}", map[string]string{"A": "{{.B}}", "B": "b"}, "{{.B}} b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.data))
		})
	}
}

func TestList(t *testing.T) {
	keys, err := List("meal.json")
	require.NoError(t, err)
	assert.Subset(t, keys, []string{"preference-scores", "meal-reasoning", "group-reasoning", "estimate-macros", "parse-dishes"})
	assert.IsNonDecreasing(t, keys)
}

func TestRender(t *testing.T) {
	prompt, err := Render("meal.json", "estimate-macros", map[string]string{
		"DishName":   "Kung Pao Chicken",
		"Restaurant": "Sichuan Corner",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, `Dish: "Kung Pao Chicken"`)
	assert.Contains(t, prompt, `Restaurant: "Sichuan Corner"`)
	assert.NotContains(t, prompt, "{{.")
}

func TestRender_UserTextWithBraces(t *testing.T) {
	prompt, err := Render("meal.json", "parse-dishes", map[string]string{"Text": "Combo {{.Special}} 12 yuan"})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Combo {{.Special}} 12 yuan")
}

func TestRender_Errors(t *testing.T) {
	_, err := Render("meal.json", "missing", nil)
	assert.Error(t, err)

	_, err = Render("meal.json", "estimate-macros", map[string]string{"DishName": "Rice"})
	assert.ErrorContains(t, err, "no value for Restaurant")
}

// Every template must be renderable by the oracle that owns it.
func TestMealPrompts_Placeholders(t *testing.T) {
	want := map[string][]string{
		"preference-scores": {"Count", "Meals", "Preferences"},
		"meal-reasoning":    {"Carbs", "DietGoal", "Dishes", "Fat", "Protein"},
		"group-reasoning":   {"Dishes", "Participants"},
		"estimate-macros":   {"DishName", "Restaurant"},
		"parse-dishes":      {"Text"},
	}
	for key, names := range want {
		assert.Equal(t, names, placeholders(MustGet("meal.json", key)), key)
	}
}
