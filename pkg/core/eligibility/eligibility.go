// Package eligibility decides whether a user may cook or wash for a meal
// under a rule set. All functions are pure.
package eligibility

import (
	"slices"
	"time"

	"github.com/jakechorley/kitchen-rota/pkg/core/model"
)

// Evaluator applies a validated RuleSet
type Evaluator struct {
	rules *model.RuleSet
}

func NewEvaluator(rules *model.RuleSet) *Evaluator {
	if rules == nil {
		rules = &model.RuleSet{}
	}
	return &Evaluator{rules: rules}
}

// CanCook reports whether a user holding roles may cook on date.
// Any excluded role or any role restricted on that weekday disqualifies.
func (e *Evaluator) CanCook(roles []model.Role, date time.Time) bool {
	if intersects(roles, e.rules.ExcludeRolesCooking) {
		return false
	}

	weekday := date.Weekday()
	for _, role := range roles {
		restriction, ok := e.rules.Restriction(role)
		if !ok {
			continue
		}
		if restriction.ExcludesDay(weekday) {
			return false
		}
	}

	return true
}

// CanWash reports whether a user holding roles may wash for the given meal.
//
// Day exclusions only disqualify DTS holders, and only Monday to Friday.
// Meal exclusions only apply on Saturdays, for any role.
func (e *Evaluator) CanWash(roles []model.Role, date time.Time, mealType model.MealType) bool {
	if intersects(roles, e.rules.ExcludeRolesWashing) {
		return false
	}

	weekday := date.Weekday()
	for _, role := range roles {
		restriction, ok := e.rules.Restriction(role)
		if !ok {
			continue
		}
		if restriction.ExcludesDay(weekday) && role == model.RoleDTS && isWeekday(weekday) {
			return false
		}
		if restriction.ExcludesMeal(mealType) && weekday == time.Saturday {
			return false
		}
	}

	return true
}

// EligibleCooks returns the users who may cook the meal, preserving order
func (e *Evaluator) EligibleCooks(users []model.User, meal model.Meal) []model.User {
	eligible := make([]model.User, 0, len(users))
	for _, u := range users {
		if e.CanCook(u.Roles, meal.Date) {
			eligible = append(eligible, u)
		}
	}
	return eligible
}

// EligibleWashers returns the users who may wash for the meal, preserving order
func (e *Evaluator) EligibleWashers(users []model.User, meal model.Meal) []model.User {
	eligible := make([]model.User, 0, len(users))
	for _, u := range users {
		if e.CanWash(u.Roles, meal.Date, meal.Type) {
			eligible = append(eligible, u)
		}
	}
	return eligible
}

func intersects(roles, excluded []model.Role) bool {
	for _, role := range roles {
		if slices.Contains(excluded, role) {
			return true
		}
	}
	return false
}

func isWeekday(day time.Weekday) bool {
	return day >= time.Monday && day <= time.Friday
}
