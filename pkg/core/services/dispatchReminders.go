package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/kitchen-rota/internal/config"
	"github.com/jakechorley/kitchen-rota/pkg/core/reminders"
	"github.com/jakechorley/kitchen-rota/pkg/db"
)

// DispatchRemindersStore defines the database operations needed for dispatching reminders
type DispatchRemindersStore interface {
	GetMeal(ctx context.Context, id string) (*db.Meal, error)
	InsertReminderLogs(ctx context.Context, logs []db.ReminderLog) error
}

// DispatchRemindersResult counts reminders by recorded status
type DispatchRemindersResult struct {
	Delivered int
	Failed    int
	Stale     int
	Expired   int
}

func (r *DispatchRemindersResult) Total() int {
	return r.Delivered + r.Failed + r.Stale + r.Expired
}

// DispatchReminders sends every reminder due at now. Each claimed reminder is
// sent at most once and its result recorded. Reminders whose user no longer
// holds the duty are recorded as stale; reminders more than the configured
// expiry past their fire time are recorded as expired. Send failures are
// recorded, not returned.
func DispatchReminders(
	ctx context.Context,
	database DispatchRemindersStore,
	queue ReminderQueue,
	sink reminders.Sink,
	cfg *config.Config,
	logger *zap.Logger,
	now time.Time,
) (*DispatchRemindersResult, error) {
	result := &DispatchRemindersResult{}
	limit := cfg.Reminders.BatchSize
	if limit <= 0 {
		limit = 1
	}

	for {
		due, err := queue.ClaimDueReminders(ctx, now.Unix(), limit)
		if err != nil && len(due) == 0 {
			return result, fmt.Errorf("failed to claim reminders: %w", err)
		}
		if err != nil {
			// Claimed reminders that decoded are already off the queue
			logger.Warn("Dropped undecodable reminders", zap.Error(err))
		}
		logger.Debug("Claimed due reminders", zap.Int("count", len(due)))
		if len(due) == 0 {
			break
		}

		logs := make([]db.ReminderLog, 0, len(due))
		for _, r := range due {
			entry := dispatchOne(ctx, database, sink, cfg, logger, r, now)
			switch entry.Status {
			case db.ReminderDelivered:
				result.Delivered++
			case db.ReminderFailed:
				result.Failed++
			case db.ReminderStale:
				result.Stale++
			case db.ReminderExpired:
				result.Expired++
			}
			logs = append(logs, entry)
		}

		if err := database.InsertReminderLogs(ctx, logs); err != nil {
			return result, fmt.Errorf("failed to record reminder dispatch: %w", err)
		}

		if int64(len(due)) < limit {
			break
		}
	}

	if result.Total() > 0 {
		logger.Info("Reminders dispatched",
			zap.Int("delivered", result.Delivered),
			zap.Int("failed", result.Failed),
			zap.Int("stale", result.Stale),
			zap.Int("expired", result.Expired))
	}

	return result, nil
}

func dispatchOne(
	ctx context.Context,
	database DispatchRemindersStore,
	sink reminders.Sink,
	cfg *config.Config,
	logger *zap.Logger,
	r reminders.Reminder,
	now time.Time,
) db.ReminderLog {
	entry := db.ReminderLog{
		ID:           uuid.New().String(),
		ReminderID:   r.ID,
		MealID:       r.MealID,
		Duty:         string(r.Duty),
		UserID:       r.UserID,
		Recipient:    r.Recipient,
		FireAt:       r.FireAt,
		DispatchedAt: now,
	}

	if cfg.Reminders.Expiry > 0 && now.Sub(r.FireAt) > cfg.Reminders.Expiry {
		logger.Warn("Reminder expired", zap.String("reminder_id", r.ID), zap.Time("fire_at", r.FireAt))
		entry.Status = db.ReminderExpired
		return entry
	}

	meal, err := fetchMeal(ctx, database, r.MealID)
	if errors.Is(err, db.ErrNotFound) {
		logger.Warn("Meal no longer exists, dropping reminder", zap.String("reminder_id", r.ID))
		entry.Status = db.ReminderStale
		return entry
	}
	if err != nil {
		logger.Error("Failed to check reminder", zap.String("reminder_id", r.ID), zap.Error(err))
		entry.Status = db.ReminderFailed
		entry.Error = err.Error()
		return entry
	}

	if !r.StillAssigned(meal) {
		logger.Info("Duty changed since scheduling, dropping reminder",
			zap.String("reminder_id", r.ID),
			zap.String("meal_id", r.MealID))
		entry.Status = db.ReminderStale
		return entry
	}

	outcome := sink.Send(ctx, r.Recipient, r.Message)
	if !outcome.Delivered {
		logger.Warn("Reminder not delivered",
			zap.String("reminder_id", r.ID),
			zap.String("error", outcome.Error))
		entry.Status = db.ReminderFailed
		entry.Error = outcome.Error
		return entry
	}

	logger.Debug("Reminder delivered", zap.String("reminder_id", r.ID))
	entry.Status = db.ReminderDelivered
	return entry
}
