package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/baigao417/meal-planner-assistant/internal/db"
	"github.com/baigao417/meal-planner-assistant/internal/ingestion"
	"github.com/baigao417/meal-planner-assistant/internal/nutrition"
	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// EstimateMacrosRequest names the dish to estimate.
type EstimateMacrosRequest struct {
	DishName   string `json:"dish_name" validate:"required"`
	Restaurant string `json:"restaurant"`
}

// EstimateMacrosResponse carries the estimated macros and their calories.
type EstimateMacrosResponse struct {
	DishName   string       `json:"dish_name"`
	Restaurant string       `json:"restaurant,omitempty"`
	Macros     types.Macros `json:"macros"`
	Calories   float64      `json:"calories"`
}

// ImportDishesRequest imports a menu from pasted text or a page URL.
type ImportDishesRequest struct {
	Text       string `json:"text,omitempty" validate:"required_without=URL,excluded_with=URL"`
	URL        string `json:"url,omitempty" validate:"omitempty,http_url"`
	Restaurant string `json:"restaurant,omitempty"`
	UseBrowser bool   `json:"use_browser,omitempty"`
	// Save stores the parsed dishes in the catalog.
	Save bool `json:"save,omitempty"`
}

// ImportDishesResponse is the parsed menu and how many dishes were stored.
type ImportDishesResponse struct {
	ingestion.Import
	Saved int `json:"saved"`
}

func (s *Server) handleListDishes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := db.DishFilters{
		Restaurant: query.Get("restaurant"),
		Limit:      parseQueryInt(r, "limit", 0, 1000),
	}
	if c := query.Get("category"); c != "" {
		filters.Category = types.DishCategory(c)
		if !filters.Category.Valid() {
			s.writeError(w, r, &ErrValidation{Field: "category", Message: "must be one of: staple protein vegetable soup other"})
			return
		}
	}

	dishes, err := s.store.ListDishes(r.Context(), filters)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"dishes": dishes,
		"count":  len(dishes),
	})
}

func (s *Server) handleCreateDish(w http.ResponseWriter, r *http.Request) {
	var d types.Dish
	if err := readJSON(w, r, &d); err != nil {
		s.writeError(w, r, err)
		return
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if err := s.validateStruct(&d); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.store.CreateDish(r.Context(), d)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleGetDish(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	d, err := s.store.GetDish(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if d == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "dish", ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, d)
}

func (s *Server) handleUpdateDish(w http.ResponseWriter, r *http.Request) {
	var d types.Dish
	if err := readJSON(w, r, &d); err != nil {
		s.writeError(w, r, err)
		return
	}
	d.ID = r.PathValue("id")
	if err := s.validateStruct(&d); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.UpdateDish(r.Context(), d); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, d)
}

func (s *Server) handleDeleteDish(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteDish(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleEstimateMacros asks the language model for a dish's macros.
func (s *Server) handleEstimateMacros(w http.ResponseWriter, r *http.Request) {
	if s.estimator == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "macro estimation"})
		return
	}

	var req EstimateMacrosRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	macros, err := s.estimator.EstimateMacros(ctx, req.DishName, req.Restaurant)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, EstimateMacrosResponse{
		DishName:   req.DishName,
		Restaurant: req.Restaurant,
		Macros:     macros,
		Calories:   nutrition.Calories(macros),
	})
}

// handleImportDishes parses a menu into dishes and optionally stores them.
func (s *Server) handleImportDishes(w http.ResponseWriter, r *http.Request) {
	if s.importer == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "menu import"})
		return
	}

	var req ImportDishesRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	im := *s.importer
	if req.Restaurant != "" {
		im.Restaurant = req.Restaurant
	}
	im.URL.UseBrowser = im.URL.UseBrowser || req.UseBrowser

	var imported *ingestion.Import
	var err error
	if req.URL != "" {
		imported, err = im.ImportURL(ctx, req.URL)
	} else {
		imported, err = im.ImportText(ctx, req.Text)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := ImportDishesResponse{Import: *imported}
	if req.Save && len(imported.Dishes) > 0 {
		stored, err := s.store.CreateDishes(ctx, imported.Dishes)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Dishes = stored
		resp.Saved = len(stored)
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
