package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/kitchen-rota/pkg/core/model"
	"github.com/jakechorley/kitchen-rota/pkg/db"
)

// Unassigned is shown in place of a missing or dangling duty holder
const Unassigned = "Unassigned"

// ListDutiesStore defines the database operations needed for listing duties
type ListDutiesStore interface {
	GetUsers(ctx context.Context) ([]db.User, error)
	GetMealsBetween(ctx context.Context, from, to string) ([]db.Meal, error)
}

// DutyRow is one meal of the week with its duty holders resolved to names
type DutyRow struct {
	MealID     string
	Date       time.Time
	MealType   model.MealType
	MealName   string
	Cook       string
	Washer     string
	PrepTime   string
	ServeTime  string
	NoDutyMeal bool
}

// ListDuties returns the week's meals in chronological order with cook and
// washer names. References to users no longer on the roster show as Unassigned.
func ListDuties(
	ctx context.Context,
	database ListDutiesStore,
	logger *zap.Logger,
	weekStart time.Time,
) ([]DutyRow, error) {
	weekStart = normalizeWeekStart(weekStart)
	from, to := weekBounds(weekStart)

	logger.Debug("Listing duties", zap.String("from", from), zap.String("to", to))

	users, err := loadUsers(ctx, database, logger)
	if err != nil {
		return nil, err
	}
	roster := model.NewRoster(users)

	records, err := database.GetMealsBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch meals: %w", err)
	}
	meals, err := db.ToModelMeals(records)
	if err != nil {
		return nil, fmt.Errorf("failed to convert meals: %w", err)
	}
	sortMeals(meals)

	rows := make([]DutyRow, 0, len(meals))
	for _, m := range meals {
		rows = append(rows, DutyRow{
			MealID:     m.ID,
			Date:       m.Date,
			MealType:   m.Type,
			MealName:   m.Name,
			Cook:       resolveName(roster, m.CookID, m.ID, logger),
			Washer:     resolveName(roster, m.WasherID, m.ID, logger),
			PrepTime:   m.PrepTime.String(),
			ServeTime:  m.ServeTime.String(),
			NoDutyMeal: m.IsSundayMorning(),
		})
	}

	logger.Debug("Listed duties", zap.Int("count", len(rows)))
	return rows, nil
}

func resolveName(roster *model.Roster, userID, mealID string, logger *zap.Logger) string {
	if userID == "" {
		return Unassigned
	}
	if u, ok := roster.Lookup(userID); ok {
		return u.DisplayName()
	}
	logger.Warn("Meal references unknown user",
		zap.String("meal_id", mealID),
		zap.String("user_id", userID))
	return Unassigned
}
