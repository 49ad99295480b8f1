package oracle

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/baigao417/meal-planner-assistant/internal/logging"
	"github.com/baigao417/meal-planner-assistant/internal/metrics"
	"github.com/baigao417/meal-planner-assistant/internal/types"
)

const reasoningOracle = "reasoning"

// ReasoningWithFallback guards a ReasoningWriter. Failures and empty answers
// yield the fixed fallback sentences.
type ReasoningWithFallback struct {
	writer  ReasoningWriter
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[string]
}

// NewReasoningWithFallback wraps writer. A nil writer always yields the fallback text.
func NewReasoningWithFallback(writer ReasoningWriter, timeout time.Duration, breaker BreakerConfig) *ReasoningWithFallback {
	return &ReasoningWithFallback{
		writer:  writer,
		timeout: timeout,
		breaker: NewCircuitBreaker[string](breaker),
	}
}

// Meal returns reasoning for a single-user recommendation and whether the fallback was used.
func (r *ReasoningWithFallback) Meal(ctx context.Context, meal types.ScoredCandidate, profile types.UserProfile) (string, bool) {
	return r.run(ctx, FallbackMealReasoning, func(ctx context.Context) (string, error) {
		return r.writer.MealReasoning(ctx, meal, profile)
	})
}

// Group returns reasoning for a group recommendation and whether the fallback was used.
func (r *ReasoningWithFallback) Group(ctx context.Context, meal types.ScoredCandidate, participants []types.GroupParticipant) (string, bool) {
	return r.run(ctx, FallbackGroupReasoning, func(ctx context.Context) (string, error) {
		return r.writer.GroupReasoning(ctx, meal, participants)
	})
}

func (r *ReasoningWithFallback) run(ctx context.Context, fallback string, call func(context.Context) (string, error)) (string, bool) {
	if r.writer == nil {
		return fallback, true
	}

	callCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := r.breaker.Execute(func() (string, error) {
		return call(callCtx)
	})
	if err != nil || text == "" {
		reason := ReasonError
		if err == nil {
			reason = "empty"
		} else if isBreakerRejection(err) {
			reason = ReasonCircuitOpen
		}
		metrics.RecordOracleCall(reasoningOracle, reason, time.Since(start))
		metrics.RecordOracleFallback(reasoningOracle, reason)
		logging.Ctx(ctx).Warn().Err(err).Str("reason", reason).Msg("reasoning oracle failed, using fallback text")
		return fallback, true
	}

	metrics.RecordOracleCall(reasoningOracle, "ok", time.Since(start))
	return text, false
}
