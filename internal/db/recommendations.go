package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// SaveRecommendation stores a served recommendation for every profile in profileIDs.
func (db *DB) SaveRecommendation(ctx context.Context, mode string, profileIDs []string, rec types.MealRecommendation) (_ uuid.UUID, err error) {
	defer observe("save_recommendation", time.Now(), &err)

	if mode != ModeSingle && mode != ModeGroup {
		return uuid.Nil, fmt.Errorf("invalid recommendation mode %q", mode)
	}
	if len(profileIDs) == 0 {
		return uuid.Nil, fmt.Errorf("recommendation needs at least one profile")
	}

	content, err := json.Marshal(rec)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal recommendation: %w", err)
	}

	id := uuid.New()
	if _, err = db.pool.Exec(ctx,
		`INSERT INTO recommendations (id, mode, profile_ids, satisfaction_score, content)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, mode, profileIDs, rec.SatisfactionScore, content,
	); err != nil {
		return uuid.Nil, fmt.Errorf("failed to save recommendation: %w", err)
	}
	return id, nil
}

// ListRecommendations returns the most recent recommendations involving profileID.
func (db *DB) ListRecommendations(ctx context.Context, profileID string, limit int) (_ []RecommendationRecord, err error) {
	defer observe("list_recommendations", time.Now(), &err)

	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, mode, profile_ids, satisfaction_score, content, created_at
		 FROM recommendations
		 WHERE $1 = ANY(profile_ids)
		 ORDER BY created_at DESC
		 LIMIT $2`,
		profileID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()

	records := []RecommendationRecord{}
	for rows.Next() {
		var r RecommendationRecord
		var content []byte
		if err := rows.Scan(&r.ID, &r.Mode, &r.ProfileIDs, &r.SatisfactionScore, &content, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		if err := json.Unmarshal(content, &r.Recommendation); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recommendation %s: %w", r.ID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
