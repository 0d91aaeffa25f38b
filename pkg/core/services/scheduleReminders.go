package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/kitchen-rota/internal/config"
	"github.com/jakechorley/kitchen-rota/pkg/core/model"
	"github.com/jakechorley/kitchen-rota/pkg/core/reminders"
	"github.com/jakechorley/kitchen-rota/pkg/db"
)

// ScheduleRemindersStore defines the database operations needed for scheduling reminders
type ScheduleRemindersStore interface {
	GetUsers(ctx context.Context) ([]db.User, error)
	GetMealsBetween(ctx context.Context, from, to string) ([]db.Meal, error)
}

// ScheduleRemindersResult summarises a scheduling run
type ScheduleRemindersResult struct {
	WeekStart time.Time
	Meals     int
	Scheduled []reminders.Reminder
}

// ScheduleReminders queues cook and washer reminders for every assigned meal
// in the week. Reminders already in the past are not queued. Queuing the same
// week twice does not create duplicates.
func ScheduleReminders(
	ctx context.Context,
	database ScheduleRemindersStore,
	queue ReminderQueue,
	cfg *config.Config,
	logger *zap.Logger,
	weekStart time.Time,
	now time.Time,
) (*ScheduleRemindersResult, error) {
	if weekStart.IsZero() {
		weekStart = normalizeWeekStart(now.In(cfg.Location()))
	} else {
		weekStart = normalizeWeekStart(weekStart)
	}
	from, to := weekBounds(weekStart)

	logger.Debug("Scheduling reminders", zap.String("from", from), zap.String("to", to))

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

	result := &ScheduleRemindersResult{WeekStart: weekStart, Meals: len(meals), Scheduled: []reminders.Reminder{}}
	for _, meal := range meals {
		planned := reminders.Plan(meal, roster, now, cfg.Location())
		for _, r := range planned {
			if r.Recipient == "" {
				logger.Warn("User has no phone number, skipping reminder",
					zap.String("user_id", r.UserID),
					zap.String("meal_id", r.MealID))
				continue
			}
			result.Scheduled = append(result.Scheduled, r)
		}
	}

	if len(result.Scheduled) == 0 {
		logger.Info("No reminders to schedule", zap.Int("meals", len(meals)))
		return result, nil
	}

	if err := queue.EnqueueReminders(ctx, result.Scheduled); err != nil {
		return nil, fmt.Errorf("failed to enqueue reminders: %w", err)
	}

	logger.Info("Reminders scheduled",
		zap.String("week_start", from),
		zap.Int("meals", len(meals)),
		zap.Int("reminders", len(result.Scheduled)))

	return result, nil
}
