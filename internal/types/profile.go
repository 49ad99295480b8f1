package types

import (
	"github.com/go-playground/validator/v10"
)

// DietGoal selects the macro coefficients used to derive daily targets.
type DietGoal string

// Diet goals
const (
	GoalFatLoss     DietGoal = "fat-loss"
	GoalMuscleGain  DietGoal = "muscle-gain"
	GoalMaintenance DietGoal = "maintenance"
)

// Valid reports whether g is a known diet goal.
func (g DietGoal) Valid() bool {
	switch g {
	case GoalFatLoss, GoalMuscleGain, GoalMaintenance:
		return true
	}
	return false
}

// UserProfile describes one eater.
type UserProfile struct {
	ID       string   `json:"id"`
	Name     string   `json:"name" validate:"required"`
	WeightKg float64  `json:"weight_kg" validate:"gt=0"`
	DietGoal DietGoal `json:"diet_goal" validate:"oneof=fat-loss muscle-gain maintenance"`
	// Preferences is free text passed verbatim to the preference oracle.
	Preferences string  `json:"preferences"`
	Budget      float64 `json:"budget" validate:"gt=0"`
}

// Validate validates the UserProfile using the validator.
func (p *UserProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// GroupParticipant weights one profile's satisfaction inside a group.
type GroupParticipant struct {
	User   UserProfile `json:"user"`
	Weight float64     `json:"weight" validate:"gt=0"`
}

// Validate validates the GroupParticipant and its profile.
func (g *GroupParticipant) Validate() error {
	validate := validator.New()
	return validate.Struct(g)
}
