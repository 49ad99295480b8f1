package server

import (
	"net/http"
	"strconv"

	"github.com/baigao417/meal-planner-assistant/internal/nutrition"
	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// TargetsResponse is the macro target for a body weight and diet goal.
type TargetsResponse struct {
	ProfileID    string         `json:"profile_id,omitempty"`
	WeightKg     float64        `json:"weight_kg"`
	DietGoal     types.DietGoal `json:"diet_goal"`
	TargetMacros types.Macros   `json:"target_macros"`
	Calories     float64        `json:"calories"`
}

// handleTargets computes targets for ?profile_id= or for ?weight_kg=&diet_goal=.
func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var profile types.UserProfile
	if id := query.Get("profile_id"); id != "" {
		p, _, err := s.resolveProfile(r.Context(), id, nil)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		profile = p
	} else {
		weight, err := strconv.ParseFloat(query.Get("weight_kg"), 64)
		if err != nil || weight <= 0 {
			s.writeError(w, r, &ErrValidation{Field: "weight_kg", Message: "must be a positive number"})
			return
		}
		goal := types.DietGoal(query.Get("diet_goal"))
		if goal == "" {
			goal = types.GoalMaintenance
		}
		if !goal.Valid() {
			s.writeError(w, r, &ErrValidation{Field: "diet_goal", Message: "must be one of: fat-loss muscle-gain maintenance"})
			return
		}
		profile = types.UserProfile{WeightKg: weight, DietGoal: goal}
	}

	target := nutrition.TargetMacros(profile)
	s.jsonResponse(w, http.StatusOK, TargetsResponse{
		ProfileID:    profile.ID,
		WeightKg:     profile.WeightKg,
		DietGoal:     profile.DietGoal,
		TargetMacros: target,
		Calories:     nutrition.Calories(target),
	})
}
