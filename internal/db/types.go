package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// Recommendation modes
const (
	ModeSingle = "single"
	ModeGroup  = "group"
)

// DefaultListLimit caps list queries when no limit is given.
const DefaultListLimit = 50

// RecommendationRecord is one persisted recommendation.
type RecommendationRecord struct {
	ID                uuid.UUID                `json:"id"`
	Mode              string                   `json:"mode"`
	ProfileIDs        []string                 `json:"profile_ids"`
	SatisfactionScore float64                  `json:"satisfaction_score"`
	Recommendation    types.MealRecommendation `json:"recommendation"`
	CreatedAt         time.Time                `json:"created_at"`
}

// DishFilters holds optional filters for listing dishes
type DishFilters struct {
	Restaurant string
	Category   types.DishCategory
	Limit      int
}

// SeedResult reports how many sample rows were inserted.
type SeedResult struct {
	Profiles int `json:"profiles"`
	Dishes   int `json:"dishes"`
}
