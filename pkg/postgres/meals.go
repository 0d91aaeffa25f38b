package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/kitchen-rota/pkg/db"
)

const mealColumns = `id, meal_date, meal_type, meal_name, cook_id, washer_id, prep_time, serve_time`

func scanMeal(row pgx.Row) (db.Meal, error) {
	var m db.Meal
	var date time.Time
	var cookID, washerID *string
	if err := row.Scan(&m.ID, &date, &m.MealType, &m.MealName, &cookID, &washerID, &m.PrepTime, &m.ServeTime); err != nil {
		return db.Meal{}, err
	}
	m.Date = date.Format(db.DateFormat)
	if cookID != nil {
		m.CookID = *cookID
	}
	if washerID != nil {
		m.WasherID = *washerID
	}
	return m, nil
}

// nullable maps an empty reference to NULL
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// GetMealsBetween retrieves meals with from <= date < to (YYYY-MM-DD), chronologically
func (d *DB) GetMealsBetween(ctx context.Context, from, to string) ([]db.Meal, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+mealColumns+`
		FROM meals
		WHERE meal_date >= $1 AND meal_date < $2
		ORDER BY meal_date,
			CASE meal_type WHEN 'Breakfast' THEN 0 WHEN 'Lunch' THEN 1 ELSE 2 END,
			id
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query meals: %w", err)
	}
	defer rows.Close()

	var meals []db.Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meals: %w", err)
	}

	return meals, nil
}

// GetMeal retrieves one meal, returning a *db.NotFoundError if it does not exist
func (d *DB) GetMeal(ctx context.Context, id string) (*db.Meal, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+mealColumns+` FROM meals WHERE id = $1`, id)
	m, err := scanMeal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &db.NotFoundError{Entity: "meal", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meal %s: %w", id, err)
	}
	return &m, nil
}

// InsertMeals inserts meal records in a single transaction
func (d *DB) InsertMeals(ctx context.Context, meals []db.Meal) error {
	if len(meals) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, m := range meals {
		_, err := tx.Exec(ctx, `
			INSERT INTO meals (`+mealColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, m.ID, m.Date, m.MealType, m.MealName, nullable(m.CookID), nullable(m.WasherID), m.PrepTime, m.ServeTime)
		if err != nil {
			return fmt.Errorf("failed to insert meal: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateMealAssignments writes cook and washer for each meal atomically.
// If any meal no longer exists nothing is written and a *db.NotFoundError is returned.
func (d *DB) UpdateMealAssignments(ctx context.Context, meals []db.Meal) error {
	if len(meals) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, m := range meals {
		tag, err := tx.Exec(ctx, `
			UPDATE meals SET cook_id = $2, washer_id = $3 WHERE id = $1
		`, m.ID, nullable(m.CookID), nullable(m.WasherID))
		if err != nil {
			return fmt.Errorf("failed to update meal %s: %w", m.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return &db.NotFoundError{Entity: "meal", ID: m.ID}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
