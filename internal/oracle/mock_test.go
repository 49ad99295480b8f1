package oracle

import (
	"context"

	"github.com/baigao417/meal-planner-assistant/internal/llm"
	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateJSONFunc    func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, tier)
	}
	return "", nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return "{}", nil
}

func (m *MockLLMClient) GetModel(_ llm.ModelTier) string {
	return "mock-model"
}

func (m *MockLLMClient) Close() error {
	return nil
}

// stubScorer implements PreferenceScorer with a function field and counts calls.
type stubScorer struct {
	fn    func(ctx context.Context, meals []types.MealCandidate) ([]float64, error)
	calls int
}

func (s *stubScorer) ScorePreferences(ctx context.Context, meals []types.MealCandidate, _ types.UserProfile) ([]float64, error) {
	s.calls++
	return s.fn(ctx, meals)
}

// stubWriter implements ReasoningWriter with function fields.
type stubWriter struct {
	meal  func(ctx context.Context) (string, error)
	group func(ctx context.Context) (string, error)
}

func (s *stubWriter) MealReasoning(ctx context.Context, _ types.ScoredCandidate, _ types.UserProfile) (string, error) {
	return s.meal(ctx)
}

func (s *stubWriter) GroupReasoning(ctx context.Context, _ types.ScoredCandidate, _ []types.GroupParticipant) (string, error) {
	return s.group(ctx)
}

func testMeals() []types.MealCandidate {
	dishes := types.SampleDishes()
	return []types.MealCandidate{
		types.NewMealCandidate(dishes[1], dishes[6]),
		types.NewMealCandidate(dishes[3]),
		types.NewMealCandidate(dishes[0], dishes[4], dishes[7]),
	}
}

func testProfile() types.UserProfile {
	return types.SampleUsers()[0]
}
