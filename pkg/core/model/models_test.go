package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole("dts")
	require.NoError(t, err)
	assert.Equal(t, RoleDTS, role)

	role, err = ParseRole(" WorkDutyManager ")
	require.NoError(t, err)
	assert.Equal(t, RoleWorkDutyManager, role)

	_, err = ParseRole("Gardener")
	assert.Error(t, err)
}

func TestParseClockTime(t *testing.T) {
	ct, err := ParseClockTime("07:30")
	require.NoError(t, err)
	assert.Equal(t, ClockTime{Hour: 7, Minute: 30}, ct)
	assert.Equal(t, "07:30", ct.String())

	_, err = ParseClockTime("25:00")
	assert.Error(t, err)
}

func TestClockTime_On(t *testing.T) {
	date := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	got := ClockTime{Hour: 17, Minute: 45}.On(date, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 6, 17, 45, 0, 0, time.UTC), got)
}

func TestMeal_IsSundayMorning(t *testing.T) {
	sunday := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	monday := sunday.AddDate(0, 0, 1)

	assert.True(t, Meal{Date: sunday, Type: Breakfast}.IsSundayMorning())
	assert.True(t, Meal{Date: sunday, Type: Lunch}.IsSundayMorning())
	assert.False(t, Meal{Date: sunday, Type: Dinner}.IsSundayMorning())
	assert.False(t, Meal{Date: monday, Type: Breakfast}.IsSundayMorning())
}

func TestMeal_Before(t *testing.T) {
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	breakfast := Meal{ID: "b", Date: day, Type: Breakfast}
	dinner := Meal{ID: "a", Date: day, Type: Dinner}
	nextDay := Meal{ID: "c", Date: day.AddDate(0, 0, 1), Type: Breakfast}

	assert.True(t, breakfast.Before(dinner))
	assert.False(t, dinner.Before(breakfast))
	assert.True(t, dinner.Before(nextDay))
}

func TestRoster_Lookup(t *testing.T) {
	roster := NewRoster([]User{
		{ID: "alice", FirstName: "Alice", LastName: "Smith"},
	})

	u, ok := roster.Lookup("alice")
	require.True(t, ok)
	assert.Equal(t, "Alice Smith", u.DisplayName())

	_, ok = roster.Lookup("deleted-user")
	assert.False(t, ok)

	_, ok = roster.Lookup("")
	assert.False(t, ok)

	assert.Equal(t, "Unassigned", roster.NameOf("deleted-user", "Unassigned"))
}

func TestWeekStart(t *testing.T) {
	wednesday := time.Date(2025, 1, 8, 13, 20, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), WeekStart(wednesday))

	sunday := time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), WeekStart(sunday))
}

func TestRuleSet_Validate(t *testing.T) {
	valid := RuleSet{
		ExcludeRolesCooking: []Role{RoleMissionary},
		ExcludeRolesWashing: []Role{RoleMissionary, RoleAdmin},
		DayRestrictions: map[Role]DayRestriction{
			RoleDTS: {ExcludeDays: []time.Weekday{time.Monday, time.Tuesday}, ExcludeMeals: []string{"dinner"}},
		},
		PublicationTime: PublicationTime{Day: time.Friday, Hour: 17, Minute: 45},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(rs *RuleSet)
	}{
		{"hour out of range", func(rs *RuleSet) { rs.PublicationTime.Hour = 24 }},
		{"minute out of range", func(rs *RuleSet) { rs.PublicationTime.Minute = 60 }},
		{"day out of range", func(rs *RuleSet) { rs.PublicationTime.Day = 7 }},
		{"unknown cooking role", func(rs *RuleSet) { rs.ExcludeRolesCooking = []Role{"Gardener"} }},
		{"unknown restricted role", func(rs *RuleSet) {
			rs.DayRestrictions = map[Role]DayRestriction{"Gardener": {}}
		}},
		{"bad excluded meal", func(rs *RuleSet) {
			rs.DayRestrictions = map[Role]DayRestriction{RoleDTS: {ExcludeMeals: []string{"Supper"}}}
		}},
		{"bad excluded day", func(rs *RuleSet) {
			rs.DayRestrictions = map[Role]DayRestriction{RoleDTS: {ExcludeDays: []time.Weekday{8}}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := valid
			rs.DayRestrictions = map[Role]DayRestriction{}
			for k, v := range valid.DayRestrictions {
				rs.DayRestrictions[k] = v
			}
			tt.mutate(&rs)
			err := rs.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRuleSet)
		})
	}
}
