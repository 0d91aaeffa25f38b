package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jakechorley/kitchen-rota/internal/config"
	"github.com/jakechorley/kitchen-rota/pkg/core/model"
	"github.com/jakechorley/kitchen-rota/pkg/db"
)

// DefineWeekStore defines the database operations needed for defining a week of meals
type DefineWeekStore interface {
	GetMealsBetween(ctx context.Context, from, to string) ([]db.Meal, error)
	InsertMeals(ctx context.Context, meals []db.Meal) error
}

// DefineWeekResult represents the result of defining a week of meals
type DefineWeekResult struct {
	WeekStart time.Time
	Created   []model.Meal
	Existing  int
}

// DefineWeek creates the meals for the week starting weekStart from the
// configured meal templates. Meals already present for a date and meal type
// are left untouched. A zero weekStart means the week after now.
func DefineWeek(
	ctx context.Context,
	database DefineWeekStore,
	cfg *config.Config,
	logger *zap.Logger,
	weekStart time.Time,
	now time.Time,
) (*DefineWeekResult, error) {
	if len(cfg.MealTemplates) == 0 {
		return nil, fmt.Errorf("no meal templates configured")
	}

	if weekStart.IsZero() {
		weekStart = nextWeekStart(now.In(cfg.Location()))
		logger.Info("No week given, defining next week", zap.Time("week_start", weekStart))
	} else {
		weekStart = normalizeWeekStart(weekStart)
	}

	from, to := weekBounds(weekStart)
	logger.Debug("Defining week", zap.String("from", from), zap.String("to", to))

	logger.Debug("Fetching existing meals")
	existing, err := database.GetMealsBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch meals: %w", err)
	}
	logger.Debug("Found existing meals", zap.Int("count", len(existing)))

	present := make(map[string]bool, len(existing))
	for _, m := range existing {
		present[mealKey(m.Date, m.MealType)] = true
	}

	candidates, err := expandTemplates(cfg.MealTemplates, weekStart)
	if err != nil {
		return nil, err
	}

	result := &DefineWeekResult{WeekStart: weekStart, Created: []model.Meal{}}
	var records []db.Meal
	for _, meal := range candidates {
		record := db.FromModelMeal(meal)
		key := mealKey(record.Date, record.MealType)
		if present[key] {
			logger.Debug("Meal already exists, skipping",
				zap.String("date", record.Date),
				zap.String("meal_type", record.MealType))
			result.Existing++
			continue
		}
		present[key] = true

		meal.ID = uuid.New().String()
		record.ID = meal.ID
		records = append(records, record)
		result.Created = append(result.Created, meal)
	}

	if len(records) == 0 {
		logger.Info("Week already defined, nothing to insert", zap.Int("existing", result.Existing))
		return result, nil
	}

	if err := database.InsertMeals(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to insert meals: %w", err)
	}

	logger.Info("Week defined",
		zap.String("week_start", from),
		zap.Int("created", len(result.Created)),
		zap.Int("existing", result.Existing))

	return result, nil
}

// expandTemplates returns one meal per template occurrence within the week,
// in chronological order and without IDs
func expandTemplates(templates []config.MealTemplate, weekStart time.Time) ([]model.Meal, error) {
	weekEnd := weekStart.AddDate(0, 0, 7).Add(-time.Second)

	var meals []model.Meal
	for i, tmpl := range templates {
		rule, err := rrule.StrToRRule(tmpl.RRule)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rrule for meal template %d: %w", i, err)
		}
		mealType, err := model.ParseMealType(tmpl.Type)
		if err != nil {
			return nil, fmt.Errorf("meal template %d: %w", i, err)
		}
		prep, err := model.ParseClockTime(tmpl.PrepTime)
		if err != nil {
			return nil, fmt.Errorf("meal template %d: prep time: %w", i, err)
		}
		serve, err := model.ParseClockTime(tmpl.ServeTime)
		if err != nil {
			return nil, fmt.Errorf("meal template %d: serve time: %w", i, err)
		}

		rule.DTStart(weekStart)
		for _, occurrence := range rule.Between(weekStart, weekEnd, true) {
			date := time.Date(occurrence.Year(), occurrence.Month(), occurrence.Day(), 0, 0, 0, 0, time.UTC)
			meals = append(meals, model.Meal{
				Date:      date,
				Type:      mealType,
				Name:      tmpl.Name,
				PrepTime:  prep,
				ServeTime: serve,
			})
		}
	}

	sortMeals(meals)
	return meals, nil
}

func mealKey(date, mealType string) string {
	return date + "|" + mealType
}
