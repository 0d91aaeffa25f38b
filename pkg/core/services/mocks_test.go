package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jakechorley/kitchen-rota/internal/config"
	"github.com/jakechorley/kitchen-rota/pkg/core/model"
	"github.com/jakechorley/kitchen-rota/pkg/core/reminders"
	"github.com/jakechorley/kitchen-rota/pkg/db"
)

// mockStore is an in-memory stand-in for the postgres store
type mockStore struct {
	users      []db.User
	meals      map[string]db.Meal
	rules      *model.RuleSet
	logs       []db.ReminderLog
	updates    int
	insertErr  error
	updateErr  error
	getMealErr error
}

func newMockStore(meals ...db.Meal) *mockStore {
	m := &mockStore{meals: map[string]db.Meal{}}
	for _, meal := range meals {
		m.meals[meal.ID] = meal
	}
	return m
}

func (m *mockStore) GetUsers(ctx context.Context) ([]db.User, error) {
	return m.users, nil
}

func (m *mockStore) InsertUser(ctx context.Context, user *db.User) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.users = append(m.users, *user)
	return nil
}

func (m *mockStore) GetMealsBetween(ctx context.Context, from, to string) ([]db.Meal, error) {
	var result []db.Meal
	for _, meal := range m.meals {
		if meal.Date >= from && meal.Date < to {
			result = append(result, meal)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockStore) GetMeal(ctx context.Context, id string) (*db.Meal, error) {
	if m.getMealErr != nil {
		return nil, m.getMealErr
	}
	meal, ok := m.meals[id]
	if !ok {
		return nil, &db.NotFoundError{Entity: "meal", ID: id}
	}
	return &meal, nil
}

func (m *mockStore) InsertMeals(ctx context.Context, meals []db.Meal) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, meal := range meals {
		m.meals[meal.ID] = meal
	}
	return nil
}

func (m *mockStore) UpdateMealAssignments(ctx context.Context, meals []db.Meal) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for _, meal := range meals {
		if _, ok := m.meals[meal.ID]; !ok {
			return &db.NotFoundError{Entity: "meal", ID: meal.ID}
		}
	}
	for _, meal := range meals {
		existing := m.meals[meal.ID]
		existing.CookID = meal.CookID
		existing.WasherID = meal.WasherID
		m.meals[meal.ID] = existing
	}
	m.updates++
	return nil
}

func (m *mockStore) GetRuleSet(ctx context.Context) (*model.RuleSet, error) {
	return m.rules, nil
}

func (m *mockStore) SaveRuleSet(ctx context.Context, rules *model.RuleSet) error {
	m.rules = rules
	return nil
}

func (m *mockStore) InsertReminderLogs(ctx context.Context, logs []db.ReminderLog) error {
	m.logs = append(m.logs, logs...)
	return nil
}

// mockLocker records lock and unlock calls
type mockLocker struct {
	locked   []string
	unlocked []string
	held     map[string]bool
}

var errLockHeld = errors.New("lock held")

func (l *mockLocker) LockWeek(ctx context.Context, week string, ttl time.Duration) (func(), error) {
	if l.held[week] {
		return nil, errLockHeld
	}
	l.locked = append(l.locked, week)
	return func() { l.unlocked = append(l.unlocked, week) }, nil
}

// mockQueue keeps reminders in memory ordered by fire time
type mockQueue struct {
	items map[string]reminders.Reminder

	// claimErr is returned with the next claim only
	claimErr error
}

func newMockQueue(items ...reminders.Reminder) *mockQueue {
	q := &mockQueue{items: map[string]reminders.Reminder{}}
	for _, r := range items {
		q.items[r.ID] = r
	}
	return q
}

func (q *mockQueue) EnqueueReminders(ctx context.Context, items []reminders.Reminder) error {
	for _, r := range items {
		q.items[r.ID] = r
	}
	return nil
}

func (q *mockQueue) ClaimDueReminders(ctx context.Context, nowUnix int64, limit int64) ([]reminders.Reminder, error) {
	var due []reminders.Reminder
	for _, r := range q.items {
		if r.FireAt.Unix() <= nowUnix {
			due = append(due, r)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].FireAt.Before(due[j].FireAt) })
	if int64(len(due)) > limit {
		due = due[:limit]
	}
	for _, r := range due {
		delete(q.items, r.ID)
	}
	err := q.claimErr
	q.claimErr = nil
	return due, err
}

// mockSink records sends and fails for recipients in failFor
type mockSink struct {
	sent    []string
	failFor map[string]bool
}

func (s *mockSink) Send(ctx context.Context, recipient, message string) reminders.Outcome {
	if s.failFor[recipient] {
		return reminders.Outcome{Error: "gateway rejected message"}
	}
	s.sent = append(s.sent, recipient)
	return reminders.Outcome{Delivered: true}
}

// testWeek is the week starting Sunday 5 January 2025
var testWeek = time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

// mondayMorning is well before the Friday 17:45 cutoff
var mondayMorning = time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Timezone: "UTC",
		MealTemplates: []config.MealTemplate{
			{Type: "Breakfast", RRule: "FREQ=WEEKLY;BYDAY=SU,MO,TU,WE,TH,FR,SA", PrepTime: "07:00", ServeTime: "08:00"},
			{Type: "Dinner", RRule: "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR,SA", Name: "Community dinner", PrepTime: "17:00", ServeTime: "18:30"},
		},
		DefaultRules: model.RuleSet{
			ExcludeRolesCooking: []model.Role{model.RoleMissionary},
			ExcludeRolesWashing: []model.Role{model.RoleMissionary},
			PublicationTime:     model.PublicationTime{Day: time.Friday, Hour: 17, Minute: 45},
		},
		Reminders: config.ReminderConfig{
			PollInterval: 30 * time.Second,
			Expiry:       30 * time.Minute,
			BatchSize:    2,
		},
		WeekLockTTL: time.Minute,
	}
}

func staffUsers(ids ...string) []db.User {
	users := make([]db.User, len(ids))
	for i, id := range ids {
		users[i] = db.User{ID: id, FirstName: id, LastName: "Test", PhoneNumber: "+44" + id, Roles: []string{"Staff"}}
	}
	return users
}

func meal(id, date, mealType string) db.Meal {
	prep, serve := "07:00", "08:00"
	if mealType == "Dinner" {
		prep, serve = "17:00", "18:30"
	}
	return db.Meal{ID: id, Date: date, MealType: mealType, PrepTime: prep, ServeTime: serve}
}
