package oracle

import (
	"context"
	"errors"
	"testing"

	"github.com/baigao417/meal-planner-assistant/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMPreferenceScorer_Success(t *testing.T) {
	var gotPrompt string
	var gotTier llm.ModelTier
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
			gotPrompt = prompt
			gotTier = tier
			return "```json\n{\"scores\": [88, 61, 140]}\n```", nil
		},
	}

	scores, err := NewLLMPreferenceScorer(client).ScorePreferences(context.Background(), testMeals(), testProfile())

	require.NoError(t, err)
	assert.Equal(t, []float64{88, 61, 140}, scores)
	assert.Equal(t, llm.TierLite, gotTier)
	assert.Contains(t, gotPrompt, "Meal 1: [Brown Rice, Lentil Soup]")
	assert.Contains(t, gotPrompt, "Meal 2: [Steamed Fish with Ginger]")
	assert.Contains(t, gotPrompt, "exactly 3 integers")
	assert.Contains(t, gotPrompt, testProfile().Preferences)
	assert.NotContains(t, gotPrompt, "{{.")
}

func TestLLMPreferenceScorer_EmptyPoolSkipsCall(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			t.Fatal("model should not be called for an empty pool")
			return "", nil
		},
	}

	scores, err := NewLLMPreferenceScorer(client).ScorePreferences(context.Background(), nil, testProfile())
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestLLMPreferenceScorer_Errors(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{"model error", "", errors.New("quota exceeded")},
		{"not json", "I would rather not score these.", nil},
		{"missing scores", `{"ratings": [1, 2, 3]}`, nil},
		{"non-numeric scores", `{"scores": ["high", "low", "medium"]}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &MockLLMClient{
				GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
					return tt.response, tt.err
				},
			}

			_, err := NewLLMPreferenceScorer(client).ScorePreferences(context.Background(), testMeals(), testProfile())

			var oracleErr *Error
			assert.ErrorAs(t, err, &oracleErr)
		})
	}
}

func TestLLMPreferenceScorer_WrongCountIsNotAnError(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return `{"scores": [90]}`, nil
		},
	}

	scores, err := NewLLMPreferenceScorer(client).ScorePreferences(context.Background(), testMeals(), testProfile())
	require.NoError(t, err)
	assert.Len(t, scores, 1)
}
