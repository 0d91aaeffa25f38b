package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/kitchen-rota/pkg/core/model"
	"github.com/jakechorley/kitchen-rota/pkg/db"
)

// RuleSetReader loads the saved rule set
type RuleSetReader interface {
	GetRuleSet(ctx context.Context) (*model.RuleSet, error)
}

// UserReader loads the user roster
type UserReader interface {
	GetUsers(ctx context.Context) ([]db.User, error)
}

// MealReader loads a single meal by ID
type MealReader interface {
	GetMeal(ctx context.Context, id string) (*db.Meal, error)
}

// loadRules returns the saved rule set, or defaults when nothing has been saved
func loadRules(ctx context.Context, database RuleSetReader, defaults *model.RuleSet, logger *zap.Logger) (*model.RuleSet, error) {
	rules, err := database.GetRuleSet(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rule set: %w", err)
	}
	if rules != nil {
		return rules, nil
	}

	logger.Debug("No saved rule set, using configured defaults")
	if defaults == nil {
		return &model.RuleSet{}, nil
	}
	return defaults, nil
}

// loadUsers fetches and converts the roster. Unknown role names are logged and ignored.
func loadUsers(ctx context.Context, database UserReader, logger *zap.Logger) ([]model.User, error) {
	records, err := database.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	users := make([]model.User, 0, len(records))
	for _, r := range records {
		u, unknown := db.ToModelUser(r)
		if len(unknown) > 0 {
			logger.Warn("Ignoring unknown roles",
				zap.String("user_id", r.ID),
				zap.Strings("roles", unknown))
		}
		users = append(users, u)
	}
	return users, nil
}

// weekBounds returns the [start, end) dates of the week beginning weekStart
func weekBounds(weekStart time.Time) (string, string) {
	return weekStart.Format(db.DateFormat), weekStart.AddDate(0, 0, 7).Format(db.DateFormat)
}

// normalizeWeekStart snaps any date to the Sunday beginning its week, as a UTC calendar date
func normalizeWeekStart(date time.Time) time.Time {
	start := model.WeekStart(date)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
}

// nextWeekStart returns the Sunday after the given instant as a UTC calendar date
func nextWeekStart(from time.Time) time.Time {
	return normalizeWeekStart(from).AddDate(0, 0, 7)
}

// ParseWeek parses a YYYY-MM-DD date and snaps it to its week start
func ParseWeek(s string) (time.Time, error) {
	date, err := time.Parse(db.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return normalizeWeekStart(date), nil
}

// lockWeeks takes week locks for every distinct week in order and returns a
// function releasing them all
func lockWeeks(ctx context.Context, locker WeekLocker, ttl time.Duration, weeks ...time.Time) (func(), error) {
	seen := map[string]bool{}
	var keys []string
	for _, w := range weeks {
		key := normalizeWeekStart(w).Format(db.DateFormat)
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	if len(keys) == 2 && keys[1] < keys[0] {
		keys[0], keys[1] = keys[1], keys[0]
	}

	var unlocks []func()
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, key := range keys {
		unlock, err := locker.LockWeek(ctx, key, ttl)
		if err != nil {
			release()
			return nil, fmt.Errorf("failed to lock week %s: %w", key, err)
		}
		unlocks = append(unlocks, unlock)
	}

	return release, nil
}

// sortMeals orders meals chronologically in place
func sortMeals(meals []model.Meal) {
	slices.SortStableFunc(meals, func(a, b model.Meal) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		}
		return 0
	})
}
