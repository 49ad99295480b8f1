package recommend

import "github.com/baigao417/meal-planner-assistant/internal/types"

// NoResultReason explains an empty Result.
type NoResultReason string

// Reasons for an empty result
const (
	// ReasonNone means a meal was recommended.
	ReasonNone NoResultReason = ""
	// ReasonNoCandidates means nothing could be generated: empty catalog or non-positive budget, body weight or participant weight.
	ReasonNoCandidates NoResultReason = "no_candidates"
	// ReasonBelowThreshold means candidates existed but none reached the satisfaction threshold.
	ReasonBelowThreshold NoResultReason = "below_threshold"
)

// Result is the outcome of a recommendation request.
// Recommendation is nil exactly when Reason is not ReasonNone.
type Result struct {
	Recommendation *types.MealRecommendation `json:"recommendation"`
	// Threshold is the minimum satisfaction score that was applied.
	Threshold float64        `json:"threshold"`
	Reason    NoResultReason `json:"reason,omitempty"`
	// PoolSize is the number of candidates generated.
	PoolSize int `json:"pool_size"`
	// BestScore is the highest satisfaction seen, also when it missed the threshold.
	BestScore float64 `json:"best_score"`
	// Alternatives are other qualifying meals, best first.
	Alternatives []types.ScoredCandidate `json:"alternatives,omitempty"`
}

// Found reports whether a meal was recommended.
func (r Result) Found() bool {
	return r.Recommendation != nil
}
