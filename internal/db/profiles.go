package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/baigao417/meal-planner-assistant/internal/types"
)

const profileColumns = `id, name, weight_kg, diet_goal, preferences, budget`

func scanProfile(row rowScanner) (*types.UserProfile, error) {
	var p types.UserProfile
	var goal string
	if err := row.Scan(&p.ID, &p.Name, &p.WeightKg, &goal, &p.Preferences, &p.Budget); err != nil {
		return nil, err
	}
	p.DietGoal = types.DietGoal(goal)
	return &p, nil
}

// CreateProfile inserts a profile, assigning a new ID when p.ID is empty.
func (db *DB) CreateProfile(ctx context.Context, p types.UserProfile) (_ *types.UserProfile, err error) {
	defer observe("create_profile", time.Now(), &err)

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	created, err := scanProfile(db.pool.QueryRow(ctx,
		`INSERT INTO profiles (`+profileColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+profileColumns,
		p.ID, p.Name, p.WeightKg, string(p.DietGoal), p.Preferences, p.Budget,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return created, nil
}

// GetProfile retrieves a profile by ID. It returns (nil, nil) when none exists.
func (db *DB) GetProfile(ctx context.Context, id string) (_ *types.UserProfile, err error) {
	defer observe("get_profile", time.Now(), &err)

	p, err := scanProfile(db.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// GetProfiles retrieves profiles in the order of ids. Any missing ID yields ErrNotFound.
func (db *DB) GetProfiles(ctx context.Context, ids []string) (_ []types.UserProfile, err error) {
	defer observe("get_profiles", time.Now(), &err)

	if len(ids) == 0 {
		return []types.UserProfile{}, nil
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]types.UserProfile, len(ids))
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		byID[p.ID] = *p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}

	profiles := make([]types.UserProfile, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: profile %s", ErrNotFound, id)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// ListProfiles retrieves all profiles ordered by name.
func (db *DB) ListProfiles(ctx context.Context) (_ []types.UserProfile, err error) {
	defer observe("list_profiles", time.Now(), &err)

	rows, err := db.pool.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []types.UserProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// UpdateProfile replaces every field of an existing profile.
func (db *DB) UpdateProfile(ctx context.Context, p types.UserProfile) (err error) {
	defer observe("update_profile", time.Now(), &err)

	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE profiles
		 SET name = $2, weight_kg = $3, diet_goal = $4, preferences = $5, budget = $6, updated_at = NOW()
		 WHERE id = $1`,
		p.ID, p.Name, p.WeightKg, string(p.DietGoal), p.Preferences, p.Budget,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: profile %s", ErrNotFound, p.ID)
	}
	return nil
}

// DeleteProfile deletes a profile. Its recommendation history is kept.
func (db *DB) DeleteProfile(ctx context.Context, id string) (err error) {
	defer observe("delete_profile", time.Now(), &err)

	result, err := db.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: profile %s", ErrNotFound, id)
	}
	return nil
}
