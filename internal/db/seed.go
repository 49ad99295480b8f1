package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// Seed inserts the sample profiles and dishes. Rows whose IDs already exist are
// left untouched, so running it again is a no-op.
func (db *DB) Seed(ctx context.Context) (_ SeedResult, err error) {
	defer observe("seed", time.Now(), &err)

	var result SeedResult

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			err = errors.Join(err, rErr)
		}
	}()

	for _, p := range types.SampleUsers() {
		tag, err := tx.Exec(ctx,
			`INSERT INTO profiles (`+profileColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Name, p.WeightKg, string(p.DietGoal), p.Preferences, p.Budget,
		)
		if err != nil {
			return SeedResult{}, fmt.Errorf("failed to seed profile %s: %w", p.ID, err)
		}
		result.Profiles += int(tag.RowsAffected())
	}

	for _, d := range types.SampleDishes() {
		tag, err := tx.Exec(ctx, insertDishSQL+` ON CONFLICT (id) DO NOTHING`, dishArgs(d)...)
		if err != nil {
			return SeedResult{}, fmt.Errorf("failed to seed dish %s: %w", d.ID, err)
		}
		result.Dishes += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return SeedResult{}, fmt.Errorf("failed to commit seed: %w", err)
	}
	return result, nil
}
