// Package candidates builds a diverse pool of meal candidates from a dish catalog.
package candidates

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// Reference generator settings.
const (
	DefaultAttempts         = 50
	DefaultMaxDishes        = 4
	DefaultBudgetCeiling    = 1.2
	DefaultProteinCeiling   = 1.2
	DefaultSameCategorySkip = 0.4
)

// Generator performs a randomized greedy search with restarts.
//
// Key constraints:
//   - price and protein are soft ceilings: a dish that would push the running
//     total above budget*BudgetCeiling or target.Protein*ProteinCeiling is
//     skipped for that attempt only.
//   - a meal never grows beyond MaxDishes.
//   - every catalog dish is always present as a singleton candidate.
type Generator struct {
	Attempts         int
	MaxDishes        int
	BudgetCeiling    float64
	ProteinCeiling   float64
	SameCategorySkip float64
}

// Default returns a Generator with the reference settings.
func Default() Generator {
	return Generator{
		Attempts:         DefaultAttempts,
		MaxDishes:        DefaultMaxDishes,
		BudgetCeiling:    DefaultBudgetCeiling,
		ProteinCeiling:   DefaultProteinCeiling,
		SameCategorySkip: DefaultSameCategorySkip,
	}
}

// Validate reports settings that would make generation meaningless.
func (g Generator) Validate() error {
	switch {
	case g.Attempts < 0:
		return fmt.Errorf("attempts must be non-negative, got %d", g.Attempts)
	case g.MaxDishes < 1:
		return fmt.Errorf("max dishes must be at least 1, got %d", g.MaxDishes)
	case g.BudgetCeiling <= 0 || g.ProteinCeiling <= 0:
		return fmt.Errorf("ceilings must be positive, got budget %.2f protein %.2f", g.BudgetCeiling, g.ProteinCeiling)
	case g.SameCategorySkip < 0 || g.SameCategorySkip > 1:
		return fmt.Errorf("same-category skip probability must be within [0, 1], got %.2f", g.SameCategorySkip)
	}
	return nil
}

// NewRand returns a random source for one generation run.
// A zero seed draws a fresh seed from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // shuffling, not security
}

// Generate returns candidate meals for the catalog. rng must not be shared across goroutines.
// The result is empty only when dishes is empty.
func (g Generator) Generate(rng *rand.Rand, dishes []types.Dish, target types.Macros, budget float64) []types.MealCandidate {
	if len(dishes) == 0 {
		return nil
	}

	maxPrice := budget * g.BudgetCeiling
	maxProtein := target.Protein * g.ProteinCeiling

	pool := make([]types.MealCandidate, 0, g.Attempts*g.MaxDishes+len(dishes))
	shuffled := make([]types.Dish, len(dishes))

	for attempt := 0; attempt < g.Attempts; attempt++ {
		copy(shuffled, dishes)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		meal := make([]types.Dish, 0, g.MaxDishes)
		price, protein := 0.0, 0.0

		for _, dish := range shuffled {
			if len(meal) >= g.MaxDishes {
				break
			}
			if price+dish.Price > maxPrice || protein+dish.Protein > maxProtein {
				continue
			}
			if hasCategory(meal, dish.Category) && rng.Float64() < g.SameCategorySkip {
				continue
			}

			meal = append(meal, dish)
			price += dish.Price
			protein += dish.Protein

			pool = append(pool, types.NewMealCandidate(meal...))
		}
	}

	for _, dish := range dishes {
		pool = append(pool, types.NewMealCandidate(dish))
	}

	return nonEmpty(pool)
}

// hasCategory reports whether meal already holds a dish of category c.
// CategoryOther never counts as a repeat.
func hasCategory(meal []types.Dish, c types.DishCategory) bool {
	if c == types.CategoryOther {
		return false
	}
	for _, d := range meal {
		if d.Category == c {
			return true
		}
	}
	return false
}

func nonEmpty(pool []types.MealCandidate) []types.MealCandidate {
	out := pool[:0]
	for _, c := range pool {
		if c.Len() > 0 {
			out = append(out, c)
		}
	}
	return out
}
