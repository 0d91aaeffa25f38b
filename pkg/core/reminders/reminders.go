// Package reminders plans duty notifications from meal prep and serve times.
package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/kitchen-rota/pkg/core/allocator"
	"github.com/jakechorley/kitchen-rota/pkg/core/model"
)

// CookLeadTime is how long before prep time the cook is notified
const CookLeadTime = 15 * time.Minute

// Reminder is a notification due at FireAt
type Reminder struct {
	ID        string         `json:"id"`
	MealID    string         `json:"mealId"`
	Duty      allocator.Duty `json:"duty"`
	UserID    string         `json:"userId"`
	Recipient string         `json:"recipient"`
	Message   string         `json:"message"`
	FireAt    time.Time      `json:"fireAt"`
}

// Outcome is what a notification sink reports for one send
type Outcome struct {
	Delivered bool
	Error     string
}

// Sink delivers a message to a recipient phone number or ID.
// Failures are reported in the Outcome, never returned.
type Sink interface {
	Send(ctx context.Context, recipient, message string) Outcome
}

// reminderID is stable for a given meal, duty, user and fire time so
// scheduling the same meal twice does not queue duplicates
func reminderID(mealID string, duty allocator.Duty, userID string, fireAt time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%d", mealID, duty, userID, fireAt.Unix())
}

// Plan returns the reminders for a meal: the cook CookLeadTime before prep
// time and the washer at serve time. Reminders whose fire time is already
// past, or whose user cannot be resolved, are dropped without error.
func Plan(meal model.Meal, roster *model.Roster, now time.Time, loc *time.Location) []Reminder {
	if loc == nil {
		loc = time.UTC
	}

	planned := []Reminder{}

	if cook, ok := roster.Lookup(meal.CookID); ok {
		fireAt := meal.PrepTime.On(meal.Date, loc).Add(-CookLeadTime)
		if !fireAt.Before(now) {
			planned = append(planned, Reminder{
				ID:        reminderID(meal.ID, allocator.DutyCook, cook.ID, fireAt),
				MealID:    meal.ID,
				Duty:      allocator.DutyCook,
				UserID:    cook.ID,
				Recipient: cook.PhoneNumber,
				Message:   cookMessage(cook, meal),
				FireAt:    fireAt,
			})
		}
	}

	if washer, ok := roster.Lookup(meal.WasherID); ok {
		fireAt := meal.ServeTime.On(meal.Date, loc)
		if !fireAt.Before(now) {
			planned = append(planned, Reminder{
				ID:        reminderID(meal.ID, allocator.DutyWasher, washer.ID, fireAt),
				MealID:    meal.ID,
				Duty:      allocator.DutyWasher,
				UserID:    washer.ID,
				Recipient: washer.PhoneNumber,
				Message:   washerMessage(washer, meal),
				FireAt:    fireAt,
			})
		}
	}

	return planned
}

// StillAssigned reports whether the reminder's user still holds its duty on meal
func (r Reminder) StillAssigned(meal model.Meal) bool {
	switch r.Duty {
	case allocator.DutyCook:
		return meal.CookID == r.UserID
	case allocator.DutyWasher:
		return meal.WasherID == r.UserID
	}
	return false
}

func cookMessage(cook model.User, meal model.Meal) string {
	return fmt.Sprintf("Hi %s, you are cooking %s%s on %s. Prep starts at %s.",
		cook.FirstName, meal.Type.Lower(), mealNameSuffix(meal), meal.Date.Format("Mon 02 Jan"), meal.PrepTime)
}

func washerMessage(washer model.User, meal model.Meal) string {
	return fmt.Sprintf("Hi %s, you are washing up after %s%s today. Serving now (%s).",
		washer.FirstName, meal.Type.Lower(), mealNameSuffix(meal), meal.ServeTime)
}

func mealNameSuffix(meal model.Meal) string {
	if meal.Name == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", meal.Name)
}
