package oracle

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/baigao417/meal-planner-assistant/internal/llm"
	"github.com/baigao417/meal-planner-assistant/internal/logging"
	"github.com/baigao417/meal-planner-assistant/internal/prompts"
	"github.com/baigao417/meal-planner-assistant/internal/schemas"
	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// ErrEstimationFailed is returned for any macro estimation failure; the message is shown to users.
var ErrEstimationFailed = errors.New("AI estimation failed. Please enter macros manually.") //nolint:staticcheck // user-facing sentence

const macroResponseSchema = `{
  "type": "object",
  "required": ["protein", "carbs", "fat"],
  "properties": {
    "protein": {"type": "number"},
    "carbs": {"type": "number"},
    "fat": {"type": "number"}
  }
}`

// MacroEstimator estimates per-serving macros for a dish by name.
type MacroEstimator struct {
	Client llm.Client
	Tier   llm.ModelTier
}

// NewMacroEstimator returns an estimator on the standard tier.
func NewMacroEstimator(client llm.Client) *MacroEstimator {
	return &MacroEstimator{Client: client, Tier: llm.TierStandard}
}

// EstimateMacros returns a single-serving estimate. Negative values are clamped to zero.
func (e *MacroEstimator) EstimateMacros(ctx context.Context, dishName, restaurant string) (types.Macros, error) {
	dishName = strings.TrimSpace(dishName)
	if dishName == "" {
		return types.Macros{}, ErrEstimationFailed
	}

	prompt, err := prompts.Render(promptFile, "estimate-macros", map[string]string{
		"DishName":   dishName,
		"Restaurant": strings.TrimSpace(restaurant),
	})
	if err != nil {
		return types.Macros{}, e.fail(ctx, dishName, err)
	}

	raw, err := e.Client.GenerateJSON(ctx, prompt, e.Tier)
	if err != nil {
		return types.Macros{}, e.fail(ctx, dishName, err)
	}

	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.ValidateJSONString(macroResponseSchema, cleaned); err != nil {
		return types.Macros{}, e.fail(ctx, dishName, err)
	}

	var macros types.Macros
	if err := llm.DecodeJSON(cleaned, &macros); err != nil {
		return types.Macros{}, e.fail(ctx, dishName, err)
	}

	return types.Macros{
		Protein: math.Max(0, macros.Protein),
		Carbs:   math.Max(0, macros.Carbs),
		Fat:     math.Max(0, macros.Fat),
	}, nil
}

func (e *MacroEstimator) fail(ctx context.Context, dishName string, cause error) error {
	logging.Ctx(ctx).Error().Err(cause).Str("dish", dishName).Msg("macro estimation failed")
	return ErrEstimationFailed
}
