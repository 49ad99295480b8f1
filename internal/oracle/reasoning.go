package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/baigao417/meal-planner-assistant/internal/llm"
	"github.com/baigao417/meal-planner-assistant/internal/prompts"
	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// LLMReasoningWriter asks the model for a two-sentence explanation of the chosen meal.
type LLMReasoningWriter struct {
	Client llm.Client
	Tier   llm.ModelTier
}

// NewLLMReasoningWriter returns a writer on the lite tier.
func NewLLMReasoningWriter(client llm.Client) *LLMReasoningWriter {
	return &LLMReasoningWriter{Client: client, Tier: llm.TierLite}
}

// MealReasoning explains why the meal suits the profile's goal.
func (w *LLMReasoningWriter) MealReasoning(ctx context.Context, meal types.ScoredCandidate, profile types.UserProfile) (string, error) {
	dishLines := make([]string, len(meal.Dishes))
	for i, d := range meal.Dishes {
		dishLines[i] = fmt.Sprintf("- %s from %s", d.Name, d.Restaurant)
	}

	user, err := prompts.Render(promptFile, "meal-reasoning", map[string]string{
		"DietGoal": string(profile.DietGoal),
		"Dishes":   strings.Join(dishLines, "\n"),
		"Protein":  fmt.Sprintf("%.0f", meal.Macros.Protein),
		"Carbs":    fmt.Sprintf("%.0f", meal.Macros.Carbs),
		"Fat":      fmt.Sprintf("%.0f", meal.Macros.Fat),
	})
	if err != nil {
		return "", err
	}

	return w.generate(ctx, prompts.MustGet(promptFile, "reasoning-system")+"\n\n"+user)
}

// GroupReasoning explains how the meal balances the participants' preferences.
func (w *LLMReasoningWriter) GroupReasoning(ctx context.Context, meal types.ScoredCandidate, participants []types.GroupParticipant) (string, error) {
	lines := make([]string, len(participants))
	for i, p := range participants {
		name := p.User.Name
		if name == "" {
			name = "Unknown"
		}
		lines[i] = fmt.Sprintf("- %s (weight: %g): %s", name, p.Weight, p.User.Preferences)
	}

	user, err := prompts.Render(promptFile, "group-reasoning", map[string]string{
		"Participants": strings.Join(lines, "\n"),
		"Dishes":       strings.Join(meal.DishNames(), ", "),
	})
	if err != nil {
		return "", err
	}

	return w.generate(ctx, prompts.MustGet(promptFile, "group-reasoning-system")+"\n\n"+user)
}

func (w *LLMReasoningWriter) generate(ctx context.Context, prompt string) (string, error) {
	text, err := w.Client.GenerateContent(ctx, prompt, w.Tier)
	if err != nil {
		return "", &Error{Message: "reasoning generation failed", Cause: err}
	}
	return strings.TrimSpace(text), nil
}
