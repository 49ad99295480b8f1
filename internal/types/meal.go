package types

// MealCandidate is one possible meal: an ordered, non-empty sequence of dishes.
type MealCandidate struct {
	Dishes []Dish `json:"dishes"`
}

// NewMealCandidate copies dishes into a new candidate.
func NewMealCandidate(dishes ...Dish) MealCandidate {
	cp := make([]Dish, len(dishes))
	copy(cp, dishes)
	return MealCandidate{Dishes: cp}
}

// Len returns the number of dishes in the meal.
func (m MealCandidate) Len() int {
	return len(m.Dishes)
}

// Macros returns the summed macros of the meal.
func (m MealCandidate) Macros() Macros {
	return SumMacros(m.Dishes)
}

// TotalPrice returns the summed price of the meal.
func (m MealCandidate) TotalPrice() float64 {
	total := 0.0
	for _, d := range m.Dishes {
		total += d.Price
	}
	return total
}

// DishNames returns the dish names in meal order.
func (m MealCandidate) DishNames() []string {
	names := make([]string, len(m.Dishes))
	for i, d := range m.Dishes {
		names[i] = d.Name
	}
	return names
}

// SubScores holds the four independent sub-scores of a candidate, each nominally 0-100.
type SubScores struct {
	Nutrition  float64 `json:"nutrition_score"`
	Preference float64 `json:"preference_score"`
	History    float64 `json:"history_score"`
	Budget     float64 `json:"budget_score"`
}

// ScoredCandidate is a meal candidate with its sub-scores and combined satisfaction score.
type ScoredCandidate struct {
	MealCandidate
	SubScores
	SatisfactionScore float64  `json:"satisfaction_score"`
	Macros            Macros   `json:"macros"`
	TotalPrice        float64  `json:"total_price"`
	Warnings          []string `json:"warnings"`
	// Index is the candidate's position in the generated pool.
	Index int `json:"-"`
}

// MealRecommendation is the final answer for one request. It is never persisted by the engine.
type MealRecommendation struct {
	ScoredCandidate
	Reasoning    string `json:"reasoning"`
	TargetMacros Macros `json:"target_macros"`
	// PreferenceFallback is true when default preference scores replaced oracle output.
	PreferenceFallback bool `json:"preference_fallback"`
	// ReasoningFallback is true when the static reasoning sentence was used.
	ReasoningFallback bool `json:"reasoning_fallback"`
}
