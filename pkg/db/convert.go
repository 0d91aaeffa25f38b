package db

import (
	"fmt"
	"time"

	"github.com/jakechorley/kitchen-rota/pkg/core/model"
)

const DateFormat = "2006-01-02"

// ToModelMeal parses a meal record into the domain model
func ToModelMeal(m Meal) (model.Meal, error) {
	date, err := time.Parse(DateFormat, m.Date)
	if err != nil {
		return model.Meal{}, fmt.Errorf("meal %s: invalid date: %w", m.ID, err)
	}
	mealType, err := model.ParseMealType(m.MealType)
	if err != nil {
		return model.Meal{}, fmt.Errorf("meal %s: %w", m.ID, err)
	}
	prep, err := model.ParseClockTime(m.PrepTime)
	if err != nil {
		return model.Meal{}, fmt.Errorf("meal %s: prep time: %w", m.ID, err)
	}
	serve, err := model.ParseClockTime(m.ServeTime)
	if err != nil {
		return model.Meal{}, fmt.Errorf("meal %s: serve time: %w", m.ID, err)
	}

	return model.Meal{
		ID:        m.ID,
		Date:      date,
		Type:      mealType,
		Name:      m.MealName,
		CookID:    m.CookID,
		WasherID:  m.WasherID,
		PrepTime:  prep,
		ServeTime: serve,
	}, nil
}

// ToModelMeals converts a list of meal records, failing on the first bad record
func ToModelMeals(records []Meal) ([]model.Meal, error) {
	meals := make([]model.Meal, 0, len(records))
	for _, r := range records {
		m, err := ToModelMeal(r)
		if err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	return meals, nil
}

// FromModelMeal converts a domain meal into a record
func FromModelMeal(m model.Meal) Meal {
	return Meal{
		ID:        m.ID,
		Date:      m.Date.Format(DateFormat),
		MealType:  string(m.Type),
		MealName:  m.Name,
		CookID:    m.CookID,
		WasherID:  m.WasherID,
		PrepTime:  m.PrepTime.String(),
		ServeTime: m.ServeTime.String(),
	}
}

// ToModelUser converts a user record. Unknown role names are returned
// separately so callers can log them; they grant no eligibility.
func ToModelUser(u User) (model.User, []string) {
	roles := make([]model.Role, 0, len(u.Roles))
	var unknown []string
	for _, name := range u.Roles {
		role, err := model.ParseRole(name)
		if err != nil {
			unknown = append(unknown, name)
			continue
		}
		roles = append(roles, role)
	}

	return model.User{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		Roles:       roles,
	}, unknown
}

// FromModelUser converts a domain user into a record
func FromModelUser(u model.User) User {
	roles := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = string(r)
	}
	return User{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		Roles:       roles,
	}
}
