package server

import (
	"net/http"

	"github.com/baigao417/meal-planner-assistant/internal/db"
	"github.com/baigao417/meal-planner-assistant/internal/types"
)

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.store.ListProfiles(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"profiles": profiles,
		"count":    len(profiles),
	})
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var p types.UserProfile
	if err := s.decodeJSON(w, r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.store.CreateProfile(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, _, err := s.resolveProfile(r.Context(), id, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var p types.UserProfile
	if err := s.decodeJSON(w, r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	p.ID = r.PathValue("id")

	if err := s.store.UpdateProfile(r.Context(), p); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProfile(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleListProfileRecommendations returns the profile's recommendation history, newest first.
func (s *Server) handleListProfileRecommendations(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	limit := parseQueryInt(r, "limit", db.DefaultListLimit, 200)

	records, err := s.store.ListRecommendations(r.Context(), id, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"profile_id":      id,
		"recommendations": records,
		"count":           len(records),
	})
}
