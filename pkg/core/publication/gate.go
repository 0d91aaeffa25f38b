// Package publication derives whether the kitchen schedule is locked for
// ordinary edits from the wall clock and the configured weekly publish time.
package publication

import (
	"time"

	"github.com/jakechorley/kitchen-rota/pkg/core/model"
)

type State string

const (
	StateOpen      State = "Open"
	StatePublished State = "Published"
)

// Gate is advisory: it never blocks anything itself, callers must honour it
// before mutating meals.
type Gate struct {
	publishAt model.PublicationTime
	location  *time.Location
}

// NewGate creates a gate evaluating times in loc (UTC when nil)
func NewGate(publishAt model.PublicationTime, loc *time.Location) *Gate {
	if loc == nil {
		loc = time.UTC
	}
	return &Gate{publishAt: publishAt, location: loc}
}

// IsPublished reports whether now is at or past this week's publish moment.
// Only weekday and time of day are compared, so a new week starts Open again
// once the weekday wraps round to Sunday.
func (g *Gate) IsPublished(now time.Time) bool {
	local := now.In(g.location)
	day := local.Weekday()

	if day > g.publishAt.Day {
		return true
	}
	if day == g.publishAt.Day && local.Hour() > g.publishAt.Hour {
		return true
	}
	if day == g.publishAt.Day && local.Hour() == g.publishAt.Hour && local.Minute() >= g.publishAt.Minute {
		return true
	}
	return false
}

func (g *Gate) State(now time.Time) State {
	if g.IsPublished(now) {
		return StatePublished
	}
	return StateOpen
}

// Cutoff returns the publish instant within the week containing now
func (g *Gate) Cutoff(now time.Time) time.Time {
	weekStart := model.WeekStart(now.In(g.location))
	day := weekStart.AddDate(0, 0, int(g.publishAt.Day))
	return time.Date(day.Year(), day.Month(), day.Day(), g.publishAt.Hour, g.publishAt.Minute, 0, 0, g.location)
}

func (g *Gate) Location() *time.Location {
	return g.location
}
