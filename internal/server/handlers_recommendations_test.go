package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baigao417/meal-planner-assistant/internal/db"
	"github.com/baigao417/meal-planner-assistant/internal/recommend"
	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// tenKiloProfile has a maintenance target of 15g protein, 40g carbs, 10g fat.
func tenKiloProfile(id string) types.UserProfile {
	return types.UserProfile{ID: id, Name: "Tester " + id, WeightKg: 10, DietGoal: types.GoalMaintenance, Budget: 20}
}

func perfectDish() types.Dish {
	return types.Dish{ID: "p1", Name: "Perfect Plate", Restaurant: "Lab", Price: 5, Protein: 15, Carbs: 40, Fat: 10, Rating: 10, Category: types.CategoryStaple}
}

func friesDish() types.Dish {
	return types.Dish{ID: "f1", Name: "Fries", Restaurant: "Lab", Price: 2, Protein: 3, Carbs: 5, Fat: 45, Rating: 8, Category: types.CategoryOther}
}

func labStore(profileIDs ...string) *fakeStore {
	store := newFakeStore()
	for _, id := range profileIDs {
		store.profiles[id] = tenKiloProfile(id)
	}
	store.dishes = []types.Dish{perfectDish()}
	return store
}

// stubRecommender returns fixed answers.
type stubRecommender struct {
	result recommend.Result
	err    error
}

func (s stubRecommender) FindBestMeal(context.Context, types.UserProfile, []types.Dish) (recommend.Result, error) {
	return s.result, s.err
}

func (s stubRecommender) FindBestGroupMeal(context.Context, []types.GroupParticipant, []types.Dish) (recommend.Result, error) {
	return s.result, s.err
}

func (s stubRecommender) Threshold() float64 { return 85 }

func TestHandleRecommend_StoredProfile(t *testing.T) {
	store := labStore("u-test")
	s := newTestServer(t, Deps{Store: store})

	rec := doRequest(t, s, http.MethodPost, "/recommendations", RecommendationRequest{ProfileID: "u-test"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[RecommendationResponse](t, rec)
	assert.True(t, resp.Found)
	require.NotNil(t, resp.Recommendation)
	assert.Equal(t, []string{"Perfect Plate"}, resp.Recommendation.DishNames())
	assert.InDelta(t, 100.0, resp.Recommendation.SatisfactionScore, 1e-9)
	assert.Equal(t, types.Macros{Protein: 15, Carbs: 40, Fat: 10}, resp.Recommendation.TargetMacros)
	assert.Equal(t, 85.0, resp.Threshold)
	require.NotNil(t, resp.HistoryID)

	history := doRequest(t, s, http.MethodGet, "/profiles/u-test/recommendations", nil)
	require.Equal(t, http.StatusOK, history.Code)
	body := decodeBody[struct {
		Recommendations []db.RecommendationRecord `json:"recommendations"`
		Count           int                       `json:"count"`
	}](t, history)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, *resp.HistoryID, body.Recommendations[0].ID)
	assert.Equal(t, db.ModeSingle, body.Recommendations[0].Mode)
}

func TestHandleRecommend_InlineProfileIsNotSaved(t *testing.T) {
	store := labStore()
	s := newTestServer(t, Deps{Store: store})
	profile := tenKiloProfile("")

	rec := doRequest(t, s, http.MethodPost, "/recommendations", RecommendationRequest{Profile: &profile})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[RecommendationResponse](t, rec)
	assert.True(t, resp.Found)
	assert.Nil(t, resp.HistoryID)
	assert.Zero(t, store.historyLen())
}

func TestHandleRecommend_EmptyResults(t *testing.T) {
	tests := []struct {
		name   string
		req    RecommendationRequest
		reason recommend.NoResultReason
	}{
		{
			name:   "zero budget",
			req:    RecommendationRequest{Profile: &types.UserProfile{WeightKg: 10, DietGoal: types.GoalMaintenance}},
			reason: recommend.ReasonNoCandidates,
		},
		{
			name: "nothing good enough",
			req: RecommendationRequest{
				Profile:        &types.UserProfile{WeightKg: 70, DietGoal: types.GoalMaintenance, Budget: 30},
				CatalogRequest: CatalogRequest{Dishes: []types.Dish{friesDish()}},
			},
			reason: recommend.ReasonBelowThreshold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := labStore()
			s := newTestServer(t, Deps{Store: store})

			rec := doRequest(t, s, http.MethodPost, "/recommendations", tt.req)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			resp := decodeBody[RecommendationResponse](t, rec)
			assert.False(t, resp.Found)
			assert.Nil(t, resp.Recommendation)
			assert.Equal(t, tt.reason, resp.Reason)
			assert.Zero(t, store.historyLen())
		})
	}
}

func TestHandleRecommend_DishIDs(t *testing.T) {
	store := labStore("u-test")
	store.dishes = append(store.dishes, friesDish())
	s := newTestServer(t, Deps{Store: store})

	rec := doRequest(t, s, http.MethodPost, "/recommendations", RecommendationRequest{
		ProfileID:      "u-test",
		CatalogRequest: CatalogRequest{DishIDs: []string{"p1", "p1"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[RecommendationResponse](t, rec)
	require.True(t, resp.Found)
	assert.Equal(t, []string{"Perfect Plate"}, resp.Recommendation.DishNames())

	rec = doRequest(t, s, http.MethodPost, "/recommendations", RecommendationRequest{
		ProfileID:      "u-test",
		CatalogRequest: CatalogRequest{DishIDs: []string{"p1", "missing"}},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "dish not found: missing")
}

func TestHandleRecommend_Errors(t *testing.T) {
	corrupt := perfectDish()
	corrupt.Protein = -4

	tests := []struct {
		name   string
		body   any
		status int
		want   string
	}{
		{"invalid JSON", `{"profile_id":`, http.StatusBadRequest, "invalid request body"},
		{"no profile", RecommendationRequest{}, http.StatusBadRequest, "profile_id"},
		{"unknown profile", RecommendationRequest{ProfileID: "ghost"}, http.StatusNotFound, "profile not found: ghost"},
		{
			"corrupt catalog",
			RecommendationRequest{ProfileID: "u-test", CatalogRequest: CatalogRequest{Dishes: []types.Dish{corrupt}}},
			http.StatusUnprocessableEntity,
			"corrupt dish catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, Deps{Store: labStore("u-test")})

			rec := doRequest(t, s, http.MethodPost, "/recommendations", tt.body)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestHandleRecommend_RecommenderFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		want   string
	}{
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, "deadline exceeded"},
		{"misconfigured", &recommend.Error{Kind: recommend.ErrInvalidConfig, Message: "scoring"}, http.StatusInternalServerError, "internal server error"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, Deps{Store: labStore("u-test"), Recommender: stubRecommender{err: tt.err}})

			rec := doRequest(t, s, http.MethodPost, "/recommendations", RecommendationRequest{ProfileID: "u-test"})

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
			assert.NotContains(t, rec.Body.String(), "boom")
		})
	}
}

func TestHandleRecommend_HistoryFailureStillServes(t *testing.T) {
	store := labStore("u-test")
	store.saveErr = errors.New("disk full")
	s := newTestServer(t, Deps{Store: store})

	rec := doRequest(t, s, http.MethodPost, "/recommendations", RecommendationRequest{ProfileID: "u-test"})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[RecommendationResponse](t, rec)
	assert.True(t, resp.Found)
	assert.Nil(t, resp.HistoryID)
}

func TestHandleRecommendGroup(t *testing.T) {
	store := labStore("a", "b")
	s := newTestServer(t, Deps{Store: store})
	three := 3.0

	rec := doRequest(t, s, http.MethodPost, "/recommendations/group", GroupRecommendationRequest{
		Participants: []ParticipantRequest{
			{ProfileID: "a", Weight: &three},
			{ProfileID: "b"},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[RecommendationResponse](t, rec)
	assert.True(t, resp.Found)
	require.NotNil(t, resp.HistoryID)

	records, err := store.ListRecommendations(context.Background(), "b", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, db.ModeGroup, records[0].Mode)
	assert.Equal(t, []string{"a", "b"}, records[0].ProfileIDs)
}

func TestHandleRecommendGroup_MixedParticipants(t *testing.T) {
	store := labStore("a")
	s := newTestServer(t, Deps{Store: store})
	guest := tenKiloProfile("")

	rec := doRequest(t, s, http.MethodPost, "/recommendations/group", GroupRecommendationRequest{
		Participants: []ParticipantRequest{{ProfileID: "a"}, {Profile: &guest}},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[RecommendationResponse](t, rec)
	assert.True(t, resp.Found)

	records, err := store.ListRecommendations(context.Background(), "a", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"a"}, records[0].ProfileIDs)
}

func TestHandleRecommendGroup_Errors(t *testing.T) {
	zero := 0.0

	tests := []struct {
		name   string
		req    GroupRecommendationRequest
		status int
		want   string
	}{
		{"no participants", GroupRecommendationRequest{}, http.StatusBadRequest, "participants"},
		{"participant without profile", GroupRecommendationRequest{Participants: []ParticipantRequest{{}}}, http.StatusBadRequest, "participants[0].profile_id"},
		{"unknown profile", GroupRecommendationRequest{Participants: []ParticipantRequest{{ProfileID: "a"}, {ProfileID: "ghost"}}}, http.StatusNotFound, "ghost"},
		{"zero weight", GroupRecommendationRequest{Participants: []ParticipantRequest{{ProfileID: "a", Weight: &zero}}}, http.StatusOK, string(recommend.ReasonNoCandidates)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, Deps{Store: labStore("a")})

			rec := doRequest(t, s, http.MethodPost, "/recommendations/group", tt.req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}
