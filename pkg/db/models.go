package db

import "time"

// User represents a database user record
type User struct {
	ID          string
	FirstName   string
	LastName    string
	PhoneNumber string
	Roles       []string
}

// Meal represents a database meal record.
// CookID and WasherID are empty when unassigned and may reference users that
// no longer exist.
type Meal struct {
	ID        string
	Date      string // YYYY-MM-DD
	MealType  string
	MealName  string
	CookID    string
	WasherID  string
	PrepTime  string // HH:MM
	ServeTime string // HH:MM
}

// ReminderStatus is the recorded result of a reminder dispatch
type ReminderStatus string

const (
	ReminderDelivered ReminderStatus = "delivered"
	ReminderFailed    ReminderStatus = "failed"
	ReminderStale     ReminderStatus = "stale"
	ReminderExpired   ReminderStatus = "expired"
)

// ReminderLog represents one dispatched (or skipped) reminder
type ReminderLog struct {
	ID           string
	ReminderID   string
	MealID       string
	Duty         string
	UserID       string
	Recipient    string
	FireAt       time.Time
	DispatchedAt time.Time
	Status       ReminderStatus
	Error        string
}
