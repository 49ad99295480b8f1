// Package oracle adapts LLM calls into the preference scores, reasoning text,
// macro estimates and parsed menus the meal planner consumes.
//
// Oracle failures never abort a recommendation: Resilient and
// ReasoningWithFallback substitute fixed defaults and report that they did.
package oracle

import (
	"context"
	"fmt"

	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// PreferenceScorer returns one raw preference score (nominally 0-100) per meal, in order.
type PreferenceScorer interface {
	ScorePreferences(ctx context.Context, meals []types.MealCandidate, profile types.UserProfile) ([]float64, error)
}

// ReasoningWriter produces a short explanation for a chosen meal.
type ReasoningWriter interface {
	MealReasoning(ctx context.Context, meal types.ScoredCandidate, profile types.UserProfile) (string, error)
	GroupReasoning(ctx context.Context, meal types.ScoredCandidate, participants []types.GroupParticipant) (string, error)
}

// Default scores substituted for oracle output.
const (
	// DefaultFailureScore is used for every meal when the oracle call fails outright.
	DefaultFailureScore = 70.0
	// DefaultMismatchScore is used when the oracle returns the wrong number of scores.
	DefaultMismatchScore = 75.0
)

// Fallback explanations used when reasoning generation fails.
const (
	FallbackMealReasoning  = "This meal is a great choice to help you meet your daily nutritional goals and stay on track!"
	FallbackGroupReasoning = "This meal selection balances the preferences of the group, offering something for everyone."
)

// Error represents an error from an oracle call
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}
