package candidates

import (
	"testing"

	"github.com/baigao417/meal-planner-assistant/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []types.Dish {
	return types.SampleDishes()
}

func TestGenerate_EmptyCatalog(t *testing.T) {
	pool := Default().Generate(NewRand(1), nil, types.Macros{Protein: 100}, 30)
	assert.Empty(t, pool)
}

func TestGenerate_SingletonCoverage(t *testing.T) {
	catalog := testCatalog()
	pool := Default().Generate(NewRand(7), catalog, types.Macros{Protein: 105, Carbs: 280, Fat: 70}, 30)

	singletons := make(map[string]int)
	for _, c := range pool {
		require.NotZero(t, c.Len(), "candidates must be non-empty")
		if c.Len() == 1 {
			singletons[c.Dishes[0].ID]++
		}
	}
	for _, d := range catalog {
		assert.GreaterOrEqual(t, singletons[d.ID], 1, "dish %s must appear as a singleton", d.ID)
	}
}

func TestGenerate_AllAttemptsFailConstraints(t *testing.T) {
	catalog := testCatalog()
	// Every dish costs more than budget*1.2, so only the appended singletons remain.
	pool := Default().Generate(NewRand(3), catalog, types.Macros{Protein: 105}, 1)

	require.Len(t, pool, len(catalog))
	for i, c := range pool {
		require.Equal(t, 1, c.Len())
		assert.Equal(t, catalog[i].ID, c.Dishes[0].ID, "singletons keep catalog order")
	}
}

func TestGenerate_RespectsCapAndCeilings(t *testing.T) {
	catalog := testCatalog()
	target := types.Macros{Protein: 135, Carbs: 262.5, Fat: 90}
	budget := 40.0

	pool := Default().Generate(NewRand(42), catalog, target, budget)
	require.NotEmpty(t, pool)

	for _, c := range pool {
		assert.LessOrEqual(t, c.Len(), DefaultMaxDishes)
		if c.Len() > 1 {
			assert.LessOrEqual(t, c.TotalPrice(), budget*DefaultBudgetCeiling+1e-9)
			assert.LessOrEqual(t, c.Macros().Protein, target.Protein*DefaultProteinCeiling+1e-9)
		}
	}
}

func TestGenerate_ProducesMultiDishMeals(t *testing.T) {
	pool := Default().Generate(NewRand(11), testCatalog(), types.Macros{Protein: 135}, 60)

	multi := 0
	for _, c := range pool {
		if c.Len() > 1 {
			multi++
		}
	}
	assert.Greater(t, multi, 0)
}

func TestGenerate_PrefixSnapshots(t *testing.T) {
	g := Default()
	g.Attempts = 1
	catalog := []types.Dish{
		{ID: "a", Price: 1, Protein: 1, Category: types.CategoryOther},
		{ID: "b", Price: 1, Protein: 1, Category: types.CategoryOther},
		{ID: "c", Price: 1, Protein: 1, Category: types.CategoryOther},
	}

	pool := g.Generate(NewRand(5), catalog, types.Macros{Protein: 100}, 100)

	// One attempt accepts all three dishes: snapshots of size 1, 2, 3, then three singletons.
	require.Len(t, pool, 6)
	assert.Equal(t, 1, pool[0].Len())
	assert.Equal(t, 2, pool[1].Len())
	assert.Equal(t, 3, pool[2].Len())
	assert.Equal(t, pool[1].Dishes[:1], pool[0].Dishes)
	assert.Equal(t, pool[2].Dishes[:2], pool[1].Dishes)
}

func TestGenerate_DeterministicWithSeed(t *testing.T) {
	catalog := testCatalog()
	target := types.Macros{Protein: 105, Carbs: 280, Fat: 70}

	first := Default().Generate(NewRand(99), catalog, target, 30)
	second := Default().Generate(NewRand(99), catalog, target, 30)

	assert.Equal(t, first, second)
}

func TestGenerate_SameCategoryAlwaysSkipped(t *testing.T) {
	g := Default()
	g.SameCategorySkip = 1.0

	pool := g.Generate(NewRand(8), testCatalog(), types.Macros{Protein: 500}, 500)

	for _, c := range pool {
		seen := make(map[types.DishCategory]bool)
		for _, d := range c.Dishes {
			if d.Category != types.CategoryOther {
				assert.False(t, seen[d.Category], "category %s repeated in %v", d.Category, c.DishNames())
			}
			seen[d.Category] = true
		}
	}
}

func TestGenerate_OtherCategoryExempt(t *testing.T) {
	g := Default()
	g.SameCategorySkip = 1.0
	catalog := []types.Dish{
		{ID: "a", Price: 1, Protein: 1, Category: types.CategoryOther},
		{ID: "b", Price: 1, Protein: 1, Category: types.CategoryOther},
	}

	pool := g.Generate(NewRand(2), catalog, types.Macros{Protein: 100}, 100)

	maxLen := 0
	for _, c := range pool {
		maxLen = max(maxLen, c.Len())
	}
	assert.Equal(t, 2, maxLen)
}

func TestHasCategory(t *testing.T) {
	meal := []types.Dish{{Category: types.CategoryStaple}, {Category: types.CategoryOther}}

	assert.True(t, hasCategory(meal, types.CategoryStaple))
	assert.False(t, hasCategory(meal, types.CategorySoup))
	assert.False(t, hasCategory(meal, types.CategoryOther))
}

func TestGenerator_Validate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	tests := []struct {
		name   string
		modify func(*Generator)
	}{
		{"negative attempts", func(g *Generator) { g.Attempts = -1 }},
		{"zero max dishes", func(g *Generator) { g.MaxDishes = 0 }},
		{"zero budget ceiling", func(g *Generator) { g.BudgetCeiling = 0 }},
		{"negative protein ceiling", func(g *Generator) { g.ProteinCeiling = -1 }},
		{"skip above one", func(g *Generator) { g.SameCategorySkip = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Default()
			tt.modify(&g)
			assert.Error(t, g.Validate())
		})
	}
}
