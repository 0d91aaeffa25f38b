package allocator

// Duty is a kitchen job attached to a meal
type Duty string

const (
	DutyCook   Duty = "cook"
	DutyWasher Duty = "washer"
)

// UnfilledDuty records a duty left empty because nobody was eligible
type UnfilledDuty struct {
	MealID string
	Duty   Duty
}

// SelfPairing reports meals where the washer fallback paired the cook with themself
func (o *AllocationOutcome) SelfPairing() []string {
	ids := []string{}
	for _, meal := range o.Meals {
		if meal.HasCook() && meal.CookID == meal.WasherID {
			ids = append(ids, meal.ID)
		}
	}
	return ids
}

// Filled returns the number of duties assigned across all meals
func (o *AllocationOutcome) Filled() int {
	count := 0
	for _, meal := range o.Meals {
		if meal.HasCook() {
			count++
		}
		if meal.HasWasher() {
			count++
		}
	}
	return count
}
