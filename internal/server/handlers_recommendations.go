package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/baigao417/meal-planner-assistant/internal/db"
	"github.com/baigao417/meal-planner-assistant/internal/logging"
	"github.com/baigao417/meal-planner-assistant/internal/recommend"
	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// CatalogRequest selects the dishes to recommend from. Inline dishes win over
// dish_ids; with neither, the whole stored catalog is used.
type CatalogRequest struct {
	DishIDs []string     `json:"dish_ids,omitempty"`
	Dishes  []types.Dish `json:"dishes,omitempty" validate:"-"`
}

// RecommendationRequest asks for one person's meal. Inline profiles are passed to
// the engine unvalidated so out-of-range values produce an empty result.
type RecommendationRequest struct {
	ProfileID string             `json:"profile_id,omitempty" validate:"required_without=Profile"`
	Profile   *types.UserProfile `json:"profile,omitempty" validate:"-"`
	CatalogRequest
}

// ParticipantRequest names one group member. Weight defaults to 1.
type ParticipantRequest struct {
	ProfileID string             `json:"profile_id,omitempty" validate:"required_without=Profile"`
	Profile   *types.UserProfile `json:"profile,omitempty" validate:"-"`
	Weight    *float64           `json:"weight,omitempty"`
}

// GroupRecommendationRequest asks for one shared meal.
type GroupRecommendationRequest struct {
	Participants []ParticipantRequest `json:"participants" validate:"required,min=1,dive"`
	CatalogRequest
}

// RecommendationResponse is the engine result plus its history entry, if one was saved.
type RecommendationResponse struct {
	recommend.Result
	Found     bool       `json:"found"`
	HistoryID *uuid.UUID `json:"history_id,omitempty"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendationRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	profile, stored, err := s.resolveProfile(ctx, req.ProfileID, req.Profile)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dishes, err := s.resolveDishes(ctx, req.CatalogRequest)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.recommender.FindBestMeal(ctx, profile, dishes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var profileIDs []string
	if stored {
		profileIDs = []string{profile.ID}
	}
	s.jsonResponse(w, http.StatusOK, s.respond(ctx, db.ModeSingle, profileIDs, result))
}

func (s *Server) handleRecommendGroup(w http.ResponseWriter, r *http.Request) {
	var req GroupRecommendationRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	participants, storedIDs, err := s.resolveParticipants(ctx, req.Participants)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dishes, err := s.resolveDishes(ctx, req.CatalogRequest)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.recommender.FindBestGroupMeal(ctx, participants, dishes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, s.respond(ctx, db.ModeGroup, storedIDs, result))
}

// respond builds the response and saves found meals to the history of stored
// profiles. A failed save is logged and does not fail the request.
func (s *Server) respond(ctx context.Context, mode string, profileIDs []string, result recommend.Result) RecommendationResponse {
	resp := RecommendationResponse{Result: result, Found: result.Found()}
	if !result.Found() || len(profileIDs) == 0 {
		return resp
	}

	id, err := s.store.SaveRecommendation(ctx, mode, profileIDs, *result.Recommendation)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("mode", mode).Msg("failed to save recommendation history")
		return resp
	}
	resp.HistoryID = &id
	return resp
}

// resolveProfile returns the inline profile, or loads the stored one.
func (s *Server) resolveProfile(ctx context.Context, id string, inline *types.UserProfile) (types.UserProfile, bool, error) {
	if inline != nil {
		return *inline, false, nil
	}
	p, err := s.store.GetProfile(ctx, id)
	if err != nil {
		return types.UserProfile{}, false, err
	}
	if p == nil {
		return types.UserProfile{}, false, &ErrNotFound{Resource: "profile", ID: id}
	}
	return *p, true, nil
}

// resolveParticipants loads stored profiles in one query and keeps request order.
func (s *Server) resolveParticipants(ctx context.Context, reqs []ParticipantRequest) ([]types.GroupParticipant, []string, error) {
	var storedIDs []string
	for _, p := range reqs {
		if p.Profile == nil {
			storedIDs = append(storedIDs, p.ProfileID)
		}
	}

	byID := make(map[string]types.UserProfile, len(storedIDs))
	if len(storedIDs) > 0 {
		profiles, err := s.store.GetProfiles(ctx, storedIDs)
		if err != nil {
			return nil, nil, err
		}
		for _, p := range profiles {
			byID[p.ID] = p
		}
	}

	participants := make([]types.GroupParticipant, len(reqs))
	for i, p := range reqs {
		weight := 1.0
		if p.Weight != nil {
			weight = *p.Weight
		}
		user := byID[p.ProfileID]
		if p.Profile != nil {
			user = *p.Profile
		}
		participants[i] = types.GroupParticipant{User: user, Weight: weight}
	}
	return participants, storedIDs, nil
}

// resolveDishes picks the catalog for a request.
func (s *Server) resolveDishes(ctx context.Context, req CatalogRequest) ([]types.Dish, error) {
	if len(req.Dishes) > 0 {
		return req.Dishes, nil
	}

	all, err := s.store.ListDishes(ctx, db.DishFilters{})
	if err != nil {
		return nil, err
	}
	if len(req.DishIDs) == 0 {
		return all, nil
	}

	byID := make(map[string]types.Dish, len(all))
	for _, d := range all {
		byID[d.ID] = d
	}
	selected := make([]types.Dish, 0, len(req.DishIDs))
	seen := make(map[string]bool, len(req.DishIDs))
	for _, id := range req.DishIDs {
		if seen[id] {
			continue
		}
		d, ok := byID[id]
		if !ok {
			return nil, &ErrNotFound{Resource: "dish", ID: id}
		}
		seen[id] = true
		selected = append(selected, d)
	}
	return selected, nil
}
