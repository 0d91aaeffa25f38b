package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/kitchen-rota/internal/config"
	"github.com/jakechorley/kitchen-rota/pkg/core/allocator"
	"github.com/jakechorley/kitchen-rota/pkg/core/model"
	"github.com/jakechorley/kitchen-rota/pkg/db"
)

// ExchangeDutyStore defines the database operations needed for exchanging a duty
type ExchangeDutyStore interface {
	GetRuleSet(ctx context.Context) (*model.RuleSet, error)
	GetMeal(ctx context.Context, id string) (*db.Meal, error)
	UpdateMealAssignments(ctx context.Context, meals []db.Meal) error
}

// ExchangeDutyResult contains both meals after the exchange
type ExchangeDutyResult struct {
	From    model.Meal
	To      model.Meal
	Changed bool
}

// ExchangeDuty moves a user's duties on one meal over to another, swapping
// with whoever held them there. Eligibility is not checked. Both meals are
// saved together. Nothing is written when the user holds no duty on fromMealID.
func ExchangeDuty(
	ctx context.Context,
	database ExchangeDutyStore,
	locker WeekLocker,
	cfg *config.Config,
	logger *zap.Logger,
	fromMealID, toMealID, userID string,
	now time.Time,
	force bool,
) (*ExchangeDutyResult, error) {
	logger.Debug("Starting exchangeDuty",
		zap.String("from_meal_id", fromMealID),
		zap.String("to_meal_id", toMealID),
		zap.String("user_id", userID))

	if fromMealID == toMealID {
		return nil, fmt.Errorf("cannot exchange meal %s with itself", fromMealID)
	}

	rules, err := loadRules(ctx, database, &cfg.DefaultRules, logger)
	if err != nil {
		return nil, err
	}
	if err := checkGate(rules, cfg, logger, now, force); err != nil {
		return nil, err
	}

	from, err := fetchMeal(ctx, database, fromMealID)
	if err != nil {
		return nil, err
	}
	to, err := fetchMeal(ctx, database, toMealID)
	if err != nil {
		return nil, err
	}

	unlock, err := lockWeeks(ctx, locker, cfg.WeekLockTTL, from.Date, to.Date)
	if err != nil {
		return nil, err
	}
	defer unlock()

	// Re-read under the lock so a concurrent generation is not overwritten
	if from, err = fetchMeal(ctx, database, fromMealID); err != nil {
		return nil, err
	}
	if to, err = fetchMeal(ctx, database, toMealID); err != nil {
		return nil, err
	}

	newFrom, newTo, changed := allocator.Exchange(from, to, userID)
	result := &ExchangeDutyResult{From: newFrom, To: newTo, Changed: changed}

	if !changed {
		logger.Info("User holds no duty on the source meal, nothing exchanged",
			zap.String("meal_id", fromMealID),
			zap.String("user_id", userID))
		return result, nil
	}

	if err := database.UpdateMealAssignments(ctx, []db.Meal{db.FromModelMeal(newFrom), db.FromModelMeal(newTo)}); err != nil {
		return nil, fmt.Errorf("failed to save exchange: %w", err)
	}

	logger.Info("Duty exchanged",
		zap.String("from_meal_id", fromMealID),
		zap.String("to_meal_id", toMealID),
		zap.String("user_id", userID))

	return result, nil
}

func fetchMeal(ctx context.Context, database MealReader, id string) (model.Meal, error) {
	record, err := database.GetMeal(ctx, id)
	if err != nil {
		return model.Meal{}, fmt.Errorf("failed to fetch meal %s: %w", id, err)
	}
	meal, err := db.ToModelMeal(*record)
	if err != nil {
		return model.Meal{}, fmt.Errorf("failed to convert meal: %w", err)
	}
	return meal, nil
}
