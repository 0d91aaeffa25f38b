package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jakechorley/kitchen-rota/pkg/core/model"
)

// ErrNotFound is matched by every NotFoundError
var ErrNotFound = errors.New("not found")

// NotFoundError reports a missing record
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// UserStore defines the interface for user database operations
type UserStore interface {
	GetUsers(ctx context.Context) ([]User, error)
	InsertUser(ctx context.Context, user *User) error
}

// MealStore defines the interface for meal database operations
type MealStore interface {
	GetMealsBetween(ctx context.Context, from, to string) ([]Meal, error)
	GetMeal(ctx context.Context, id string) (*Meal, error)
	InsertMeals(ctx context.Context, meals []Meal) error
	UpdateMealAssignments(ctx context.Context, meals []Meal) error
}

// RuleSetStore defines the interface for rule set database operations.
// GetRuleSet returns (nil, nil) when no rule set has been saved.
type RuleSetStore interface {
	GetRuleSet(ctx context.Context) (*model.RuleSet, error)
	SaveRuleSet(ctx context.Context, rules *model.RuleSet) error
}

// ReminderLogStore defines the interface for recording reminder dispatches
type ReminderLogStore interface {
	InsertReminderLogs(ctx context.Context, logs []ReminderLog) error
}

// Database defines the interface for all database operations
type Database interface {
	UserStore
	MealStore
	RuleSetStore
	ReminderLogStore
}
