// Package selection picks the recommended meal from a scored candidate pool.
package selection

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// DefaultMinSatisfaction is the satisfaction score a meal must reach to be recommended.
const DefaultMinSatisfaction = 85.0

// ErrThresholdOutOfRange is returned by Validate for a threshold off the 0-100 scale.
var ErrThresholdOutOfRange = errors.New("min satisfaction must be within [0, 100]")

// Selector picks the highest scoring candidate that clears MinSatisfaction.
type Selector struct {
	MinSatisfaction float64
}

// Default returns a Selector using DefaultMinSatisfaction.
func Default() Selector {
	return Selector{MinSatisfaction: DefaultMinSatisfaction}
}

// Validate checks the threshold is on the score scale.
func (s Selector) Validate() error {
	if math.IsNaN(s.MinSatisfaction) || s.MinSatisfaction < 0 || s.MinSatisfaction > 100 {
		return fmt.Errorf("%w, got %.2f", ErrThresholdOutOfRange, s.MinSatisfaction)
	}
	return nil
}

// Rank returns a copy of scored ordered by satisfaction, highest first.
// Ties keep pool order, so the first-seen candidate wins.
func Rank(scored []types.ScoredCandidate) []types.ScoredCandidate {
	ranked := make([]types.ScoredCandidate, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SatisfactionScore > ranked[j].SatisfactionScore
	})
	return ranked
}

// SelectBest returns the top candidate and true when its satisfaction is at least
// MinSatisfaction. A meal scoring exactly the threshold qualifies. Candidates
// with a NaN score are never selected.
func (s Selector) SelectBest(scored []types.ScoredCandidate) (types.ScoredCandidate, bool) {
	var best types.ScoredCandidate
	found := false
	for _, c := range scored {
		if math.IsNaN(c.SatisfactionScore) {
			continue
		}
		if !found || c.SatisfactionScore > best.SatisfactionScore {
			best, found = c, true
		}
	}

	if !found || best.SatisfactionScore < s.MinSatisfaction {
		return types.ScoredCandidate{}, false
	}
	return best, true
}

// Qualifying returns every candidate at or above the threshold, ranked.
func (s Selector) Qualifying(scored []types.ScoredCandidate) []types.ScoredCandidate {
	var qualifying []types.ScoredCandidate
	for _, c := range scored {
		if c.SatisfactionScore >= s.MinSatisfaction {
			qualifying = append(qualifying, c)
		}
	}
	return Rank(qualifying)
}
