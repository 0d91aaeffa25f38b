package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidRuleSet is returned when a rule set fails validation at load time
var ErrInvalidRuleSet = errors.New("invalid rule set")

// DayRestriction limits when holders of a role may take kitchen duties.
// ExcludeDays uses 0=Sunday..6=Saturday; ExcludeMeals holds lowercase meal types.
type DayRestriction struct {
	ExcludeDays  []time.Weekday `yaml:"excludeDays,omitempty" json:"excludeDays,omitempty" validate:"dive,min=0,max=6"`
	ExcludeMeals []string       `yaml:"excludeMeals,omitempty" json:"excludeMeals,omitempty" validate:"dive,oneof=breakfast lunch dinner"`
}

func (d DayRestriction) ExcludesDay(day time.Weekday) bool {
	return slices.Contains(d.ExcludeDays, day)
}

func (d DayRestriction) ExcludesMeal(mealType MealType) bool {
	return slices.Contains(d.ExcludeMeals, mealType.Lower())
}

// PublicationTime is the weekly moment after which the kitchen schedule is read-only
type PublicationTime struct {
	Day    time.Weekday `yaml:"day" json:"day" validate:"min=0,max=6"`
	Hour   int          `yaml:"hour" json:"hour" validate:"min=0,max=23"`
	Minute int          `yaml:"minute" json:"minute" validate:"min=0,max=59"`
}

// RuleSet is the kitchen duty policy. It is validated once when loaded and
// treated as valid by every consumer afterwards.
type RuleSet struct {
	ExcludeRolesCooking []Role                  `yaml:"excludeRolesCooking,omitempty" json:"excludeRolesCooking,omitempty"`
	ExcludeRolesWashing []Role                  `yaml:"excludeRolesWashing,omitempty" json:"excludeRolesWashing,omitempty"`
	DayRestrictions     map[Role]DayRestriction `yaml:"dayRestrictions,omitempty" json:"dayRestrictions,omitempty" validate:"dive"`
	PublicationTime     PublicationTime         `yaml:"publicationTime" json:"publicationTime"`
}

var validate = validator.New()

// Validate checks field ranges and that every referenced role exists
func (rs *RuleSet) Validate() error {
	if err := validate.Struct(rs); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRuleSet, err)
	}

	var unknown []string
	for _, role := range rs.ExcludeRolesCooking {
		if !role.IsValid() {
			unknown = append(unknown, string(role))
		}
	}
	for _, role := range rs.ExcludeRolesWashing {
		if !role.IsValid() {
			unknown = append(unknown, string(role))
		}
	}
	for role := range rs.DayRestrictions {
		if !role.IsValid() {
			unknown = append(unknown, string(role))
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return fmt.Errorf("%w: unknown roles: %s", ErrInvalidRuleSet, strings.Join(slices.Compact(unknown), ", "))
	}

	return nil
}

// Restriction returns the day restriction for a role, if any
func (rs *RuleSet) Restriction(role Role) (DayRestriction, bool) {
	r, ok := rs.DayRestrictions[role]
	return r, ok
}
