package services

import (
	"context"
	"errors"
	"time"

	"github.com/jakechorley/kitchen-rota/pkg/core/reminders"
)

// ErrSchedulePublished is returned when a mutation is attempted after the
// weekly publish cutoff without forcing it
var ErrSchedulePublished = errors.New("kitchen schedule is published and read-only")

// WeekLocker serialises mutations of a week's meals across operators
type WeekLocker interface {
	LockWeek(ctx context.Context, week string, ttl time.Duration) (func(), error)
}

// ReminderQueue holds scheduled reminders until they fall due
type ReminderQueue interface {
	EnqueueReminders(ctx context.Context, items []reminders.Reminder) error
	ClaimDueReminders(ctx context.Context, nowUnix int64, limit int64) ([]reminders.Reminder, error)
}
