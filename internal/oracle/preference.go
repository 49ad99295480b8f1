package oracle

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/baigao417/meal-planner-assistant/internal/llm"
	"github.com/baigao417/meal-planner-assistant/internal/prompts"
	"github.com/baigao417/meal-planner-assistant/internal/schemas"
	"github.com/baigao417/meal-planner-assistant/internal/types"
)

const promptFile = "meal.json"

// preferenceResponseSchema accepts {"scores": [number, ...]}.
const preferenceResponseSchema = `{
  "type": "object",
  "required": ["scores"],
  "properties": {
    "scores": {"type": "array", "items": {"type": "number"}}
  }
}`

type preferenceResponse struct {
	Scores []float64 `json:"scores"`
}

// LLMPreferenceScorer scores a whole candidate pool with one batched LLM call.
type LLMPreferenceScorer struct {
	Client llm.Client
	Tier   llm.ModelTier
}

// NewLLMPreferenceScorer returns a scorer on the lite tier.
func NewLLMPreferenceScorer(client llm.Client) *LLMPreferenceScorer {
	return &LLMPreferenceScorer{Client: client, Tier: llm.TierLite}
}

// ScorePreferences returns the raw scores from the model. The result may have
// the wrong length or out-of-range values; Resilient handles both.
func (s *LLMPreferenceScorer) ScorePreferences(ctx context.Context, meals []types.MealCandidate, profile types.UserProfile) ([]float64, error) {
	if len(meals) == 0 {
		return []float64{}, nil
	}

	prompt, err := buildPreferencePrompt(meals, profile)
	if err != nil {
		return nil, err
	}

	raw, err := s.Client.GenerateJSON(ctx, prompt, s.Tier)
	if err != nil {
		return nil, &Error{Message: "preference scoring failed", Cause: err}
	}

	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.ValidateJSONString(preferenceResponseSchema, cleaned); err != nil {
		return nil, &Error{Message: "invalid preference response", Cause: err}
	}

	var resp preferenceResponse
	if err := llm.DecodeJSON(cleaned, &resp); err != nil {
		return nil, &Error{Message: "invalid preference response", Cause: err}
	}
	return resp.Scores, nil
}

func buildPreferencePrompt(meals []types.MealCandidate, profile types.UserProfile) (string, error) {
	lines := make([]string, len(meals))
	for i, meal := range meals {
		lines[i] = fmt.Sprintf("Meal %d: [%s]", i+1, strings.Join(meal.DishNames(), ", "))
	}

	user, err := prompts.Render(promptFile, "preference-scores", map[string]string{
		"Preferences": profile.Preferences,
		"Meals":       strings.Join(lines, "\n"),
		"Count":       strconv.Itoa(len(meals)),
	})
	if err != nil {
		return "", err
	}
	return prompts.MustGet(promptFile, "preference-system") + "\n\n" + user, nil
}
