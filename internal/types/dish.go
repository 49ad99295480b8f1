// Package types provides type definitions for structured data used throughout the meal planner.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DishCategory is the closed set of dish categories used for meal diversity.
type DishCategory string

// Dish categories
const (
	CategoryStaple    DishCategory = "staple"
	CategoryProtein   DishCategory = "protein"
	CategoryVegetable DishCategory = "vegetable"
	CategorySoup      DishCategory = "soup"
	CategoryOther     DishCategory = "other"
)

// Categories returns every valid dish category.
func Categories() []DishCategory {
	return []DishCategory{CategoryStaple, CategoryProtein, CategoryVegetable, CategorySoup, CategoryOther}
}

// categoryAliases maps menu labels (including the Chinese labels used on
// campus canteen menus) to a category.
var categoryAliases = map[string]DishCategory{
	"staple":     CategoryStaple,
	"main":       CategoryStaple,
	"主食":         CategoryStaple,
	"protein":    CategoryProtein,
	"meat":       CategoryProtein,
	"meat & egg": CategoryProtein,
	"肉蛋":         CategoryProtein,
	"vegetable":  CategoryVegetable,
	"vegetables": CategoryVegetable,
	"蔬菜":         CategoryVegetable,
	"soup":       CategorySoup,
	"汤羹":         CategorySoup,
	"other":      CategoryOther,
	"其他":         CategoryOther,
}

// ParseDishCategory normalizes a free-form category label. Unknown labels map to CategoryOther.
func ParseDishCategory(label string) DishCategory {
	key := strings.ToLower(strings.TrimSpace(label))
	if c, ok := categoryAliases[key]; ok {
		return c
	}
	return CategoryOther
}

// Valid reports whether c is one of the known categories.
func (c DishCategory) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Dish is a single menu item. Dishes are immutable inputs to the recommendation engine.
type Dish struct {
	ID         string       `json:"id" validate:"required"`
	Name       string       `json:"name" validate:"required"`
	Restaurant string       `json:"restaurant"`
	Price      float64      `json:"price" validate:"gte=0"`
	Protein    float64      `json:"protein" validate:"gte=0"`
	Carbs      float64      `json:"carbs" validate:"gte=0"`
	Fat        float64      `json:"fat" validate:"gte=0"`
	Rating     int          `json:"rating" validate:"gte=1,lte=10"`
	Category   DishCategory `json:"category" validate:"oneof=staple protein vegetable soup other"`
	// LastEaten is reserved for recency-aware scoring; it is not read by the current engine.
	LastEaten *time.Time `json:"last_eaten,omitempty"`
}

// Macros returns the macronutrient content of the dish.
func (d Dish) Macros() Macros {
	return Macros{Protein: d.Protein, Carbs: d.Carbs, Fat: d.Fat}
}

// Validate validates the Dish using the validator.
func (d *Dish) Validate() error {
	validate := validator.New()
	return validate.Struct(d)
}
