package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin           Role = "Admin"
	RoleStaff           Role = "Staff"
	RoleMissionary      Role = "Missionary"
	RoleChef            Role = "Chef"
	RoleWorkDutyManager Role = "WorkDutyManager"
	RoleDTS             Role = "DTS"
	RolePraiseTeam      Role = "PraiseTeam"
	RoleFriend          Role = "Friend"
)

// AllRoles lists every known role in display order
var AllRoles = []Role{
	RoleAdmin,
	RoleStaff,
	RoleMissionary,
	RoleChef,
	RoleWorkDutyManager,
	RoleDTS,
	RolePraiseTeam,
	RoleFriend,
}

func (r Role) IsValid() bool {
	return slices.Contains(AllRoles, r)
}

// ParseRole matches a role name case-insensitively
func ParseRole(s string) (Role, error) {
	for _, role := range AllRoles {
		if strings.EqualFold(string(role), strings.TrimSpace(s)) {
			return role, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type MealType string

const (
	Breakfast MealType = "Breakfast"
	Lunch     MealType = "Lunch"
	Dinner    MealType = "Dinner"
)

func (m MealType) IsValid() bool {
	return m == Breakfast || m == Lunch || m == Dinner
}

// Lower returns the lowercase form used by day restriction meal lists
func (m MealType) Lower() string {
	return strings.ToLower(string(m))
}

// Order returns the position of the meal within a day
func (m MealType) Order() int {
	switch m {
	case Breakfast:
		return 0
	case Lunch:
		return 1
	case Dinner:
		return 2
	}
	return 3
}

// ParseMealType matches a meal type case-insensitively
func ParseMealType(s string) (MealType, error) {
	for _, mt := range []MealType{Breakfast, Lunch, Dinner} {
		if strings.EqualFold(string(mt), strings.TrimSpace(s)) {
			return mt, nil
		}
	}
	return "", fmt.Errorf("unknown meal type %q", s)
}

// ClockTime is a time of day with minute precision
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses an "HH:MM" string
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On returns the instant this clock time occurs on the given calendar date in loc
func (c ClockTime) On(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, loc)
}

// User is a community member who can be given kitchen duties
type User struct {
	ID          string
	FirstName   string
	LastName    string
	PhoneNumber string
	Roles       []Role
}

func (u User) HasRole(role Role) bool {
	return slices.Contains(u.Roles, role)
}

func (u User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Meal is a single meal with its optional cook and washer assignments.
// An empty CookID or WasherID means the duty is unassigned.
type Meal struct {
	ID        string
	Date      time.Time
	Type      MealType
	Name      string
	CookID    string
	WasherID  string
	PrepTime  ClockTime
	ServeTime ClockTime
}

func (m Meal) HasCook() bool {
	return m.CookID != ""
}

func (m Meal) HasWasher() bool {
	return m.WasherID != ""
}

// IsSundayMorning reports whether the meal falls under the fixed Sunday
// breakfast/lunch exception where no duties are assigned
func (m Meal) IsSundayMorning() bool {
	return m.Date.Weekday() == time.Sunday && (m.Type == Breakfast || m.Type == Lunch)
}

// Before orders meals chronologically: by date, then meal of the day, then ID
func (m Meal) Before(other Meal) bool {
	if !m.Date.Equal(other.Date) {
		return m.Date.Before(other.Date)
	}
	if m.Type.Order() != other.Type.Order() {
		return m.Type.Order() < other.Type.Order()
	}
	return m.ID < other.ID
}

// Roster indexes users by ID. Meal references to users that are no longer
// on the roster resolve to not found rather than failing.
type Roster struct {
	users []User
	byID  map[string]User
}

func NewRoster(users []User) *Roster {
	byID := make(map[string]User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return &Roster{users: users, byID: byID}
}

// Lookup returns the user with the given ID, or false if the ID is empty or unknown
func (r *Roster) Lookup(id string) (User, bool) {
	if id == "" {
		return User{}, false
	}
	u, ok := r.byID[id]
	return u, ok
}

// NameOf returns the display name for id, or fallback when it cannot be resolved
func (r *Roster) NameOf(id, fallback string) string {
	if u, ok := r.Lookup(id); ok {
		return u.DisplayName()
	}
	return fallback
}

func (r *Roster) Users() []User {
	return r.users
}

// WeekStart returns midnight of the Sunday that starts the calendar week containing date
func WeekStart(date time.Time) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}
