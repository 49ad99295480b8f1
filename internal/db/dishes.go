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

const dishColumns = `id, name, restaurant, price, protein, carbs, fat, rating, category, last_eaten`

func scanDish(row rowScanner) (*types.Dish, error) {
	var d types.Dish
	var category string
	if err := row.Scan(&d.ID, &d.Name, &d.Restaurant, &d.Price, &d.Protein, &d.Carbs, &d.Fat,
		&d.Rating, &category, &d.LastEaten); err != nil {
		return nil, err
	}
	d.Category = types.DishCategory(category)
	return &d, nil
}

func dishArgs(d types.Dish) []any {
	return []any{d.ID, d.Name, d.Restaurant, d.Price, d.Protein, d.Carbs, d.Fat, d.Rating, string(d.Category), d.LastEaten}
}

const insertDishSQL = `INSERT INTO dishes (` + dishColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// CreateDish inserts a dish, assigning a new ID when d.ID is empty.
func (db *DB) CreateDish(ctx context.Context, d types.Dish) (_ *types.Dish, err error) {
	defer observe("create_dish", time.Now(), &err)

	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dish: %w", err)
	}

	created, err := scanDish(db.pool.QueryRow(ctx, insertDishSQL+` RETURNING `+dishColumns, dishArgs(d)...))
	if err != nil {
		return nil, fmt.Errorf("failed to create dish: %w", err)
	}
	return created, nil
}

// CreateDishes inserts dishes in a single transaction. Either all are stored or none.
func (db *DB) CreateDishes(ctx context.Context, dishes []types.Dish) (_ []types.Dish, err error) {
	defer observe("create_dishes", time.Now(), &err)

	stored := make([]types.Dish, len(dishes))
	for i, d := range dishes {
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("invalid dish %q: %w", d.Name, err)
		}
		stored[i] = d
	}
	if len(stored) == 0 {
		return stored, nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			err = errors.Join(err, rErr)
		}
	}()

	batch := &pgx.Batch{}
	for _, d := range stored {
		batch.Queue(insertDishSQL, dishArgs(d)...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("failed to insert dishes: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit dishes: %w", err)
	}
	return stored, nil
}

// GetDish retrieves a dish by ID. It returns (nil, nil) when none exists.
func (db *DB) GetDish(ctx context.Context, id string) (_ *types.Dish, err error) {
	defer observe("get_dish", time.Now(), &err)

	d, err := scanDish(db.pool.QueryRow(ctx,
		`SELECT `+dishColumns+` FROM dishes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dish: %w", err)
	}
	return d, nil
}

// ListDishes retrieves dishes with optional filters. A zero Limit lists every dish,
// since the recommendation engine needs the whole catalog.
func (db *DB) ListDishes(ctx context.Context, filters DishFilters) (_ []types.Dish, err error) {
	defer observe("list_dishes", time.Now(), &err)

	query, args := buildDishQuery(filters)
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list dishes: %w", err)
	}
	defer rows.Close()

	dishes := []types.Dish{}
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dish: %w", err)
		}
		dishes = append(dishes, *d)
	}
	return dishes, rows.Err()
}

func buildDishQuery(filters DishFilters) (string, []any) {
	query := `SELECT ` + dishColumns + ` FROM dishes WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Restaurant != "" {
		query += fmt.Sprintf(" AND restaurant ILIKE $%d", argNum)
		args = append(args, "%"+filters.Restaurant+"%")
		argNum++
	}
	if filters.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argNum)
		args = append(args, string(filters.Category))
		argNum++
	}

	query += " ORDER BY created_at, id"
	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filters.Limit)
	}
	return query, args
}

// UpdateDish replaces every field of an existing dish.
func (db *DB) UpdateDish(ctx context.Context, d types.Dish) (err error) {
	defer observe("update_dish", time.Now(), &err)

	if err := d.Validate(); err != nil {
		return fmt.Errorf("invalid dish: %w", err)
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE dishes
		 SET name = $2, restaurant = $3, price = $4, protein = $5, carbs = $6, fat = $7,
		     rating = $8, category = $9, last_eaten = $10, updated_at = NOW()
		 WHERE id = $1`,
		dishArgs(d)...,
	)
	if err != nil {
		return fmt.Errorf("failed to update dish: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: dish %s", ErrNotFound, d.ID)
	}
	return nil
}

// DeleteDish deletes a dish.
func (db *DB) DeleteDish(ctx context.Context, id string) (err error) {
	defer observe("delete_dish", time.Now(), &err)

	result, err := db.pool.Exec(ctx, `DELETE FROM dishes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dish: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: dish %s", ErrNotFound, id)
	}
	return nil
}
