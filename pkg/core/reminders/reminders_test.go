package reminders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/kitchen-rota/pkg/core/allocator"
	"github.com/jakechorley/kitchen-rota/pkg/core/model"
)

var monday = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func testRoster() *model.Roster {
	return model.NewRoster([]model.User{
		{ID: "alice", FirstName: "Alice", LastName: "Smith", PhoneNumber: "+447700900001"},
		{ID: "bob", FirstName: "Bob", LastName: "Jones", PhoneNumber: "+447700900002"},
	})
}

func testMeal() model.Meal {
	return model.Meal{
		ID:        "mon-dinner",
		Date:      monday,
		Type:      model.Dinner,
		Name:      "Lasagne",
		CookID:    "alice",
		WasherID:  "bob",
		PrepTime:  model.ClockTime{Hour: 16, Minute: 30},
		ServeTime: model.ClockTime{Hour: 18, Minute: 0},
	}
}

func TestPlan_CookAndWasher(t *testing.T) {
	now := monday.Add(9 * time.Hour)

	planned := Plan(testMeal(), testRoster(), now, time.UTC)

	require.Len(t, planned, 2)

	cook := planned[0]
	assert.Equal(t, allocator.DutyCook, cook.Duty)
	assert.Equal(t, "alice", cook.UserID)
	assert.Equal(t, "+447700900001", cook.Recipient)
	assert.Equal(t, time.Date(2025, 1, 6, 16, 15, 0, 0, time.UTC), cook.FireAt)
	assert.Contains(t, cook.Message, "Alice")
	assert.Contains(t, cook.Message, "Lasagne")
	assert.Contains(t, cook.Message, "16:30")

	washer := planned[1]
	assert.Equal(t, allocator.DutyWasher, washer.Duty)
	assert.Equal(t, "bob", washer.UserID)
	assert.Equal(t, time.Date(2025, 1, 6, 18, 0, 0, 0, time.UTC), washer.FireAt)
}

func TestPlan_DropsPastReminders(t *testing.T) {
	// After the cook reminder but before serving
	now := time.Date(2025, 1, 6, 16, 20, 0, 0, time.UTC)

	planned := Plan(testMeal(), testRoster(), now, time.UTC)

	require.Len(t, planned, 1)
	assert.Equal(t, allocator.DutyWasher, planned[0].Duty)

	// After serving nothing is left
	assert.Empty(t, Plan(testMeal(), testRoster(), monday.Add(19*time.Hour), time.UTC))
}

func TestPlan_FireTimeEqualToNowIsKept(t *testing.T) {
	now := time.Date(2025, 1, 6, 16, 15, 0, 0, time.UTC)

	planned := Plan(testMeal(), testRoster(), now, time.UTC)

	assert.Len(t, planned, 2)
}

func TestPlan_UnresolvedUsersAreSkipped(t *testing.T) {
	meal := testMeal()
	meal.CookID = "deleted-user"
	meal.WasherID = ""

	assert.Empty(t, Plan(meal, testRoster(), monday, time.UTC))
}

func TestPlan_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+1", 60*60)

	planned := Plan(testMeal(), testRoster(), monday.Add(-24*time.Hour), loc)

	require.Len(t, planned, 2)
	assert.Equal(t, time.Date(2025, 1, 6, 15, 15, 0, 0, time.UTC), planned[0].FireAt.UTC())
}

func TestPlan_StableIDs(t *testing.T) {
	first := Plan(testMeal(), testRoster(), monday, time.UTC)
	second := Plan(testMeal(), testRoster(), monday.Add(time.Hour), time.UTC)

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.NotEqual(t, first[0].ID, first[1].ID)
}

func TestReminder_StillAssigned(t *testing.T) {
	planned := Plan(testMeal(), testRoster(), monday, time.UTC)
	require.Len(t, planned, 2)

	meal := testMeal()
	assert.True(t, planned[0].StillAssigned(meal))
	assert.True(t, planned[1].StillAssigned(meal))

	meal.CookID = "bob"
	meal.WasherID = "alice"
	assert.False(t, planned[0].StillAssigned(meal))
	assert.False(t, planned[1].StillAssigned(meal))
}
